package types

// SuccessEnvelope is the wire shape for every successful API response.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope is the wire shape for every failed API response. Error is a
// human-readable message for the counter operator.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

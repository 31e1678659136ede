package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/sajpos/counter-backend/internal/catalog"
	"github.com/sajpos/counter-backend/pkg/config"
	"github.com/sajpos/counter-backend/pkg/db"
	"github.com/sajpos/counter-backend/pkg/db/models"
	"github.com/sajpos/counter-backend/pkg/enums"
	"github.com/sajpos/counter-backend/pkg/logger"
)

type seedCategory struct {
	name         string
	nameAr       string
	displayOrder int
}

type seedModifier struct {
	name   string
	nameAr string
	price  string
	kind   enums.ModifierType
}

type seedProduct struct {
	category string
	name     string
	nameAr   string
	price    string
}

var seedCategories = []seedCategory{
	{"Shawarma", "شاورما", 1},
	{"Manakeesh", "مناقيش", 2},
	{"Falafel", "فلافل", 3},
	{"Appetizers", "مقبلات", 4},
	{"Beverages", "مشروبات", 5},
}

var seedModifiers = []seedModifier{
	{"Garlic", "ثوم", "0.25", enums.ModifierTypeAddon},
	{"Pickles", "مخلل", "0.10", enums.ModifierTypeAddon},
	{"Extra Meat", "زيادة لحم", "1.00", enums.ModifierTypeAddon},
	{"Cheese", "جبنة", "0.50", enums.ModifierTypeAddon},
	{"Shatta", "شطة", "0.00", enums.ModifierTypeAddon},
	{"Extra Sauce", "زيادة صوص", "0.15", enums.ModifierTypeAddon},
	{"Saj Bread", "خبز صاج", "0.00", enums.ModifierTypeOption},
	{"Regular Bread", "خبز عادي", "0.00", enums.ModifierTypeOption},
	{"No Onion", "بدون بصل", "0.00", enums.ModifierTypeOption},
	{"No Sauce", "بدون صوص", "0.00", enums.ModifierTypeOption},
}

var seedProducts = []seedProduct{
	{"Shawarma", "Arabic Shawarma", "شاورما عربي", "2.75"},
	{"Shawarma", "Saj Shawarma", "شاورما صاج", "2.25"},
	{"Shawarma", "Chicken Shawarma", "شاورما دجاج", "2.00"},
	{"Falafel", "Falafel Plate", "فلافل صحن", "1.75"},
	{"Falafel", "Falafel Sandwich", "فلافل ساندويش", "0.85"},
	{"Manakeesh", "Zaatar", "منقوشة زعتر", "0.60"},
	{"Manakeesh", "Cheese", "منقوشة جبنة", "0.85"},
	{"Manakeesh", "Meat", "منقوشة لحمة", "1.35"},
	{"Appetizers", "Hummus", "حمص", "1.75"},
	{"Appetizers", "Fries", "بطاطا مقلية", "1.10"},
	{"Appetizers", "Tabbouleh", "تبولة", "1.75"},
	{"Appetizers", "Fattoush", "فتوش", "1.75"},
	{"Appetizers", "Mutabal", "متبل", "1.75"},
	{"Appetizers", "Kibbeh (Kg)", "كبة", "12.00"},
	{"Beverages", "Pepsi", "بيبسي", "0.55"},
	{"Beverages", "Coca Cola", "كوكا كولا", "0.55"},
	{"Beverages", "Water", "ماء", "0.30"},
	{"Beverages", "Ayran", "عيران", "0.60"},
	{"Beverages", "Orange Juice", "عصير برتقال", "1.00"},
	{"Beverages", "Arabic Coffee", "قهوة عربية", "0.75"},
	{"Beverages", "Tea", "شاي", "0.50"},
}

var shawarmaModifiers = []string{"Garlic", "Pickles", "Extra Meat", "Shatta", "Saj Bread", "Regular Bread", "No Onion", "No Sauce", "Extra Sauce"}
var falafelModifiers = []string{"Garlic", "Pickles", "Shatta", "No Sauce", "Extra Sauce"}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	repo := catalog.NewRepository(dbClient.DB())

	count, err := repo.CountProducts(ctx)
	if err != nil {
		logg.Error(ctx, "failed to inspect catalog", err)
		os.Exit(1)
	}
	if count > 0 {
		logg.Info(logg.WithField(ctx, "products", count), "catalog already seeded, nothing to do")
		return
	}

	if err := run(ctx, repo); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seeding complete")
}

func run(ctx context.Context, repo catalog.Repository) error {
	categoryIDs := map[string]int64{}
	for _, c := range seedCategories {
		created, err := repo.CreateCategory(ctx, &models.Category{
			Name:         c.name,
			NameAr:       c.nameAr,
			DisplayOrder: c.displayOrder,
			IsActive:     true,
		})
		if err != nil {
			return fmt.Errorf("creating category %q: %w", c.name, err)
		}
		categoryIDs[c.name] = created.ID
	}

	modifierIDs := map[string]int64{}
	for _, m := range seedModifiers {
		price, err := decimal.NewFromString(m.price)
		if err != nil {
			return fmt.Errorf("parsing price for modifier %q: %w", m.name, err)
		}
		created, err := repo.CreateModifier(ctx, &models.Modifier{
			Name:   m.name,
			NameAr: m.nameAr,
			Price:  price,
			Type:   m.kind,
		})
		if err != nil {
			return fmt.Errorf("creating modifier %q: %w", m.name, err)
		}
		modifierIDs[m.name] = created.ID
	}

	displayOrder := 1
	for _, p := range seedProducts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return fmt.Errorf("parsing price for product %q: %w", p.name, err)
		}
		created, err := repo.CreateProduct(ctx, &models.Product{
			CategoryID:   categoryIDs[p.category],
			Name:         p.name,
			NameAr:       p.nameAr,
			Price:        price,
			IsActive:     true,
			DisplayOrder: displayOrder,
		})
		if err != nil {
			return fmt.Errorf("creating product %q: %w", p.name, err)
		}
		displayOrder++

		var attach []string
		switch p.category {
		case "Shawarma":
			attach = shawarmaModifiers
		case "Falafel":
			attach = falafelModifiers
		case "Manakeesh":
			// The cheese manakeesh already has cheese in it.
			if p.name != "Cheese" {
				attach = append(attach, "Cheese")
			}
			attach = append(attach, "Extra Sauce")
		}
		if len(attach) == 0 {
			continue
		}

		ids := make([]int64, 0, len(attach))
		for _, name := range attach {
			ids = append(ids, modifierIDs[name])
		}
		if err := repo.AttachModifiers(ctx, created.ID, ids); err != nil {
			return fmt.Errorf("attaching modifiers to %q: %w", p.name, err)
		}
	}

	return nil
}

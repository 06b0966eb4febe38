package main

import (
	"log"

	"go-retail-pos/internal/config"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seeds a demo data set: roles, employee and customer accounts,
// catalog entries and stocked products. Safe to run repeatedly, every
// record is looked up before it is created.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db := database.ConnectDB(cfg.Database)
	if err := db.AutoMigrate(
		&model.Role{}, &model.User{},
		&model.Category{}, &model.Supplier{}, &model.Product{},
		&model.Customer{}, &model.Sale{}, &model.SaleLine{},
	); err != nil {
		log.Fatal("auto-migrate failed: ", err)
	}

	roleRepo := repository.NewRoleRepo(db)
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Fatal("failed to seed roles: ", err)
	}

	seedUsers(db, roleRepo)
	categories := seedCategories(db)
	suppliers := seedSuppliers(db)
	seedProducts(db, categories, suppliers)
	seedCustomers(db)

	log.Println("Seed data loaded")
}

func seedUsers(db *gorm.DB, roleRepo repository.RoleRepository) {
	accounts := []struct {
		email    string
		name     string
		role     string
		password string
	}{
		{"vendor1@example.com", "Carlos Vendor", model.RoleVendor, "vendor123"},
		{"manager1@example.com", "Maria Manager", model.RoleManager, "manager123"},
		{"admin1@example.com", "Ana Admin", model.RoleAdministrator, "admin123"},
		{"customer1@example.com", "Juan Perez", model.RoleCustomer, "customer123"},
	}

	for _, acc := range accounts {
		var existing model.User
		if err := db.First(&existing, "email = ?", acc.email).Error; err == nil {
			continue
		}

		role, err := roleRepo.FindByCode(acc.role)
		if err != nil {
			log.Printf("role %s missing, skipping %s", acc.role, acc.email)
			continue
		}

		user := model.User{
			Email:    acc.email,
			FullName: acc.name,
			RoleID:   &role.ID,
			IsActive: true,
		}
		user.CreatedBy = "seed"
		user.UpdatedBy = "seed"
		if err := user.SetPassword(acc.password); err != nil {
			log.Fatal("failed to hash password: ", err)
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("failed to create user %s: %v", acc.email, err)
			continue
		}
		log.Printf("created user %s (%s)", acc.email, acc.role)
	}
}

func seedCategories(db *gorm.DB) map[string]model.Category {
	names := []model.Category{
		{Name: "Electronics", Description: "Phones, audio and accessories"},
		{Name: "Clothing", Description: "Apparel and footwear"},
		{Name: "Home", Description: "Household and kitchen goods"},
	}

	out := make(map[string]model.Category, len(names))
	for _, cat := range names {
		var existing model.Category
		if err := db.First(&existing, "name = ?", cat.Name).Error; err == nil {
			out[cat.Name] = existing
			continue
		}
		cat.CreatedBy = "seed"
		cat.UpdatedBy = "seed"
		if err := db.Create(&cat).Error; err != nil {
			log.Printf("failed to create category %s: %v", cat.Name, err)
			continue
		}
		out[cat.Name] = cat
	}
	return out
}

func seedSuppliers(db *gorm.DB) map[string]model.Supplier {
	email1 := "sales@techdistributors.example.com"
	email2 := "contact@textilesnorte.example.com"
	entries := []model.Supplier{
		{Name: "Pedro Gomez", CompanyName: "Tech Distributors", PhoneNumber: "555-0101", Email: &email1, Address: "Av. Industrial 42"},
		{Name: "Lucia Torres", CompanyName: "Textiles del Norte", PhoneNumber: "555-0202", Email: &email2, Address: "Calle Comercio 7"},
	}

	out := make(map[string]model.Supplier, len(entries))
	for _, sup := range entries {
		var existing model.Supplier
		if err := db.First(&existing, "company_name = ?", sup.CompanyName).Error; err == nil {
			out[sup.CompanyName] = existing
			continue
		}
		sup.CreatedBy = "seed"
		sup.UpdatedBy = "seed"
		if err := db.Create(&sup).Error; err != nil {
			log.Printf("failed to create supplier %s: %v", sup.CompanyName, err)
			continue
		}
		out[sup.CompanyName] = sup
	}
	return out
}

func seedProducts(db *gorm.DB, categories map[string]model.Category, suppliers map[string]model.Supplier) {
	entries := []struct {
		name     string
		desc     string
		price    string
		stock    int
		category string
		supplier string
	}{
		{"Wireless Headphones", "Over-ear, noise cancelling", "89.99", 25, "Electronics", "Tech Distributors"},
		{"USB-C Charger", "65W fast charger", "24.50", 60, "Electronics", "Tech Distributors"},
		{"Cotton T-Shirt", "Plain white, unisex", "12.00", 100, "Clothing", "Textiles del Norte"},
		{"Denim Jacket", "Classic fit", "54.90", 18, "Clothing", "Textiles del Norte"},
		{"Ceramic Mug Set", "Set of 4, 350ml", "19.99", 40, "Home", "Tech Distributors"},
	}

	for _, entry := range entries {
		var existing model.Product
		if err := db.First(&existing, "name = ?", entry.name).Error; err == nil {
			continue
		}

		category, ok := categories[entry.category]
		if !ok {
			log.Printf("category %s missing, skipping product %s", entry.category, entry.name)
			continue
		}

		price, err := decimal.NewFromString(entry.price)
		if err != nil {
			log.Fatal("bad seed price: ", err)
		}

		product := model.Product{
			Name:        entry.name,
			Description: entry.desc,
			UnitPrice:   price,
			Stock:       entry.stock,
			IsActive:    true,
			CategoryID:  category.ID,
		}
		product.CreatedBy = "seed"
		product.UpdatedBy = "seed"
		if supplier, ok := suppliers[entry.supplier]; ok {
			product.Suppliers = []model.Supplier{supplier}
		}
		if err := db.Create(&product).Error; err != nil {
			log.Printf("failed to create product %s: %v", entry.name, err)
			continue
		}
		log.Printf("created product %s (stock %d)", entry.name, entry.stock)
	}
}

func seedCustomers(db *gorm.DB) {
	entries := []model.Customer{
		{FirstName: "Juan", LastName: "Perez", Email: "customer1@example.com", PhoneNumber: "555-1111", Address: "Calle Luna 3"},
		{FirstName: "Sofia", LastName: "Ramirez", Email: "sofia.ramirez@example.com", PhoneNumber: "555-2222", Address: "Av. Sol 18"},
	}

	for _, cust := range entries {
		var existing model.Customer
		if err := db.First(&existing, "email = ?", cust.Email).Error; err == nil {
			continue
		}

		// Link the customer to a login account with the same email when
		// one exists, so the self-service purchase list works.
		var account model.User
		if err := db.First(&account, "email = ?", cust.Email).Error; err == nil {
			cust.UserID = &account.ID
		}

		cust.CreatedBy = "seed"
		cust.UpdatedBy = "seed"
		if err := db.Create(&cust).Error; err != nil {
			log.Printf("failed to create customer %s: %v", cust.Email, err)
			continue
		}
		log.Printf("created customer %s", cust.Email)
	}
}

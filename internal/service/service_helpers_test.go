package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	// Every pooled connection would get its own in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.Payment{}, &models.EmailOTP{},
		&models.ContentSection{}, &models.ContentPhoto{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

type testEnv struct {
	DB      *gorm.DB
	Repo    *repo.GormRepo
	Catalog *CatalogService
	Cart    *CartService
	Order   *OrderService
	Payment *PaymentService
	Verify  *VerificationService
	Users   *UserService
	Content *ContentService
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)
	r := &repo.GormRepo{DB: db}

	catalog := &CatalogService{Repo: r}
	cart := &CartService{Repo: r, Catalog: catalog}

	return &testEnv{
		DB:      db,
		Repo:    r,
		Catalog: catalog,
		Cart:    cart,
		Order:   &OrderService{Repo: r, Cart: cart},
		Payment: &PaymentService{Repo: r},
		Verify:  &VerificationService{Repo: r},
		Users:   &UserService{Repo: r},
		Content: &ContentService{Repo: r},
	}
}

func (env *testEnv) createUser(t *testing.T, tgID int64) *models.User {
	t.Helper()
	user := models.User{TgID: tgID, FullName: "Test User"}
	require.NoError(t, env.DB.Create(&user).Error)
	return &user
}

func (env *testEnv) createProduct(t *testing.T, title string, price int64, currency string, active bool) *models.Product {
	t.Helper()
	prod := models.Product{Title: title, Price: price, Currency: currency, IsActive: true}
	require.NoError(t, env.DB.Create(&prod).Error)
	if !active {
		require.NoError(t, env.DB.Model(&prod).Update("is_active", false).Error)
	}
	return &prod
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/mailer"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/middleware"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/models"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/mykafka"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/repo"
	"github.com/nikitamakarovs05-netizen/tg-market-bot/internal/service"
)

var testSecret = []byte("test-service-secret")

// capturingMailer records the last message instead of sending it, letting
// tests read the issued code.
type capturingMailer struct {
	to, subject, body string
}

func (m *capturingMailer) Send(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return nil
}

var _ mailer.Sender = (*capturingMailer)(nil)

type testApp struct {
	E    *echo.Echo
	DB   *gorm.DB
	Mail *capturingMailer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.Payment{}, &models.EmailOTP{},
		&models.ContentSection{}, &models.ContentPhoto{},
	))

	r := &repo.GormRepo{DB: db}
	mail := &capturingMailer{}
	producer := mykafka.NewProducer(nil)

	catalog := &service.CatalogService{Repo: r}
	cart := &service.CartService{Repo: r, Catalog: catalog}
	order := &service.OrderService{Repo: r, Cart: cart}
	payment := &service.PaymentService{Repo: r}
	verify := &service.VerificationService{Repo: r, Mailer: mail}

	e := echo.New()
	e.Validator = NewValidator()
	Register(e, &Deps{
		UserHandler:         &UserHandler{Svc: &service.UserService{Repo: r}},
		CatalogHandler:      &CatalogHandler{Svc: catalog},
		CartHandler:         &CartHandler{Svc: cart},
		OrderHandler:        &OrderHandler{Svc: order, Producer: producer},
		PaymentHandler:      &PaymentHandler{Svc: payment, Producer: producer},
		VerificationHandler: &VerificationHandler{Svc: verify},
		ContentHandler:      &ContentHandler{Svc: &service.ContentService{Repo: r}},
		ServiceSecret:       testSecret,
	})

	return &testApp{E: e, DB: db, Mail: mail}
}

// do performs an authenticated request against the app and decodes the JSON
// response into out when out is non-nil.
func (app *testApp) do(t *testing.T, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	token, err := middleware.NewServiceToken(testSecret, "bot", time.Minute)
	require.NoError(t, err)

	rec := app.doRaw(t, method, path, body, map[string]string{
		echo.HeaderAuthorization: "Bearer " + token,
	})
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func (app *testApp) doRaw(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	app.E.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) createUser(t *testing.T, tgID int64) *models.User {
	t.Helper()
	user := models.User{TgID: tgID, FullName: "Test User"}
	require.NoError(t, app.DB.Create(&user).Error)
	return &user
}

func (app *testApp) createProduct(t *testing.T, title string, price int64) *models.Product {
	t.Helper()
	prod := models.Product{Title: title, Price: price, Currency: "EUR", IsActive: true}
	require.NoError(t, app.DB.Create(&prod).Error)
	return &prod
}

func (app *testApp) placeOrder(t *testing.T, tgID int64) *models.Order {
	t.Helper()
	user := app.createUser(t, tgID)
	prod := app.createProduct(t, "Handler test product", 1000)

	var cart models.Cart
	rec := app.do(t, http.MethodPost, "/carts", map[string]any{"user_id": user.ID}, &cart)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPost, "/carts/"+itoa(cart.ID)+"/items",
		map[string]any{"product_id": prod.ID, "qty": 2}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	rec = app.do(t, http.MethodPost, "/orders",
		map[string]any{"user_id": user.ID, "address": "Somewhere 1"}, &order)
	require.Equal(t, http.StatusCreated, rec.Code)
	return &order
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

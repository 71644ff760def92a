package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"shop_system/internal/config"
	"shop_system/internal/domain"
	"shop_system/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// itoa renders a record ID for use in a request path
func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

// testEnv bundles everything a handler test needs: an in-memory
// database, a miniredis-backed cache client and the wired router.
type testEnv struct {
	db     *gorm.DB
	rdb    *redis.Client
	cfg    *config.Config
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// The in-memory database is per-connection; a single connection keeps
	// every query on the same database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Admin{},
		&domain.Category{},
		&domain.Product{},
		&domain.Image{},
		&domain.Cart{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{JWTSecret: testSecret, StoragePath: t.TempDir()}
	return &testEnv{db: db, rdb: rdb, cfg: cfg, router: NewRouter(db, rdb, cfg)}
}

// do issues a JSON request against the router, with an optional bearer token
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// jsonDecode unmarshals raw response bytes into out
func jsonDecode(data []byte, out any) error { return json.Unmarshal(data, out) }

// decode unmarshals a response body into a generic map
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerUser creates a user through the API and returns its token
func (e *testEnv) registerUser(t *testing.T, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

// adminToken inserts an admin row and mints a matching admin token
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := domain.Admin{Email: "admin@example.com", Name: "Super Admin", Password: string(hash)}
	require.NoError(t, e.db.Create(&admin).Error)
	token, err := utils.GenerateJWT(admin.ID, true, testSecret)
	require.NoError(t, err)
	return token
}

// createProduct inserts a product (and its category if needed) directly
func (e *testEnv) createProduct(t *testing.T, title string, price float64, categoryName string) domain.Product {
	t.Helper()
	var category domain.Category
	if err := e.db.Where("name = ?", categoryName).First(&category).Error; err != nil {
		category = domain.Category{Name: categoryName}
		require.NoError(t, e.db.Create(&category).Error)
	}
	product := domain.Product{
		Title:      title,
		Price:      price,
		CategoryID: category.ID,
		Images:     []domain.Image{{URL: "/storage/" + title + ".jpg"}},
	}
	require.NoError(t, e.db.Create(&product).Error)
	return product
}

package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"shop-service/internal/dto"
	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/internal/testdb"
	"shop-service/pkg/cache"
	"shop-service/pkg/config"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/storage"
	"shop-service/prometheus"

	"github.com/alicebob/miniredis/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	storage  *storage.LocalStorage
	redis    *miniredis.Miniredis
	metrics  *prometheus.Metrics
	jwt      *jwtutil.JWTUtil
	auth     *AuthService
	users    *UserService
	products *ProductService
	photos   *PhotoService
	catalog  *CatalogService
	carts    *CartService
	wishlist *WishlistService
	orders   *OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testdb.Seeded(t)
	log := zap.NewNop()

	files, err := storage.NewLocalStorage(config.UploadConfig{
		Dir:          filepath.Join(t.TempDir(), "uploads"),
		PublicPrefix: "/uploads",
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client, err := cache.SetupRedisConnection(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	metrics := prometheus.NewMetrics(prom.NewRegistry(), "test")
	jwt := jwtutil.NewJWTUtil(config.JWTConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	sizeRepo := repository.NewSizeRepository(db)

	products := NewProductService(productRepo, catalogRepo, files, cache.NewRedisCache(client), time.Minute, metrics, log)
	auth := NewAuthService(userRepo, jwt, nil, metrics, log)
	auth.cost = bcrypt.MinCost

	return &testEnv{
		db:       db,
		storage:  files,
		redis:    mr,
		metrics:  metrics,
		jwt:      jwt,
		auth:     auth,
		users:    NewUserService(userRepo, log),
		products: products,
		photos:   NewPhotoService(productRepo, files, products.InvalidateList, log),
		catalog:  NewCatalogService(catalogRepo, sizeRepo, log),
		carts:    NewCartService(repository.NewCartRepository(db), productRepo, sizeRepo, metrics, log),
		wishlist: NewWishlistService(repository.NewWishlistRepository(db), productRepo, metrics, log),
		orders:   NewOrderService(repository.NewOrderRepository(db)),
	}
}

// createProduct adds a product in the given category through the service
func (e *testEnv) createProduct(t *testing.T, categoryID uint, sku string, price int64) *model.Product {
	t.Helper()
	p, err := e.products.Create(context.Background(), dto.CreateProductRequest{
		Name:       "Product " + sku,
		SKU:        sku,
		Price:      decimal.NewFromInt(price),
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) addConfiguration(t *testing.T, productID uint, sku string, price int64) *model.ProductConfiguration {
	t.Helper()
	c, err := e.products.CreateConfiguration(context.Background(), productID, dto.ConfigurationRequest{
		Name:  "Config " + sku,
		SKU:   sku,
		Price: decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) count(t *testing.T, table interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(table).Count(&n).Error)
	return n
}

func uintPtr(v uint) *uint { return &v }

// fileHeaders builds real multipart file headers for the given names
func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, name := range names {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image:" + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["files"]
}

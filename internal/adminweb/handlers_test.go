package adminweb

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minimart-io/minimart/config"
	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/imagestore"
	"github.com/minimart-io/minimart/internal/order"
	"github.com/minimart-io/minimart/internal/product"
	"github.com/minimart-io/minimart/internal/webserver"
	"github.com/minimart-io/minimart/pkg/common"
)

const (
	testAdminEmail    = "admin@minimart.local"
	testAdminPassword = "secret123"
)

type testEnv struct {
	db     *gorm.DB
	srv    *httptest.Server
	imgDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	hashed, err := common.HashPassword(testAdminPassword)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.SysAdmin{
		ID:        common.UUIDint64(),
		Name:      "administrator",
		Email:     testAdminEmail,
		Password:  hashed,
		LastLogin: time.Now(),
	}).Error)

	imgDir := t.TempDir()
	cfg := &config.AppConfig{
		Web: config.WebConfig{
			Host:          "127.0.0.1",
			Port:          0,
			Secret:        "test-session-secret",
			PublicDir:     t.TempDir(),
			SessionMaxAge: 3600,
		},
	}

	ws := webserver.New(cfg)
	handler := NewHandler(db, product.NewService(db), order.NewService(db), imagestore.NewLocalStore(imgDir))
	handler.Register(ws.Echo())

	srv := httptest.NewServer(ws.Echo())
	t.Cleanup(srv.Close)

	return &testEnv{db: db, srv: srv, imgDir: imgDir}
}

// newClient returns a cookie-keeping client that does not follow
// redirects, so tests can assert on Location headers.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func login(t *testing.T, env *testEnv, client *http.Client) {
	t.Helper()
	resp, err := client.PostForm(env.srv.URL+"/admin/login", url.Values{
		"email":    {testAdminEmail},
		"password": {testAdminPassword},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin", resp.Header.Get("Location"))
}

func multipartProduct(t *testing.T, fields map[string]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if imageName != "" {
		fw, err := w.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake-image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUnauthenticatedAdminRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	resp, err := client.Get(env.srv.URL + "/admin")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	resp, err := client.PostForm(env.srv.URL+"/admin/login", url.Values{
		"email":    {testAdminEmail},
		"password": {"wrong"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))

	// the login page consumes the error flag
	page, err := client.Get(env.srv.URL + "/admin/login")
	require.NoError(t, err)
	defer page.Body.Close()
	html, _ := io.ReadAll(page.Body)
	assert.Contains(t, string(html), "Invalid email or password")
}

func TestLoginGrantsAdminAccess(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	login(t, env, client)

	resp, err := client.Get(env.srv.URL + "/admin")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	html, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(html), "Products")
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	login(t, env, client)

	resp, err := client.Get(env.srv.URL + "/admin/logout")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	again, err := client.Get(env.srv.URL + "/admin")
	require.NoError(t, err)
	defer again.Body.Close()
	assert.Equal(t, http.StatusFound, again.StatusCode)
	assert.Equal(t, "/admin/login", again.Header.Get("Location"))
}

func TestAddProductRequiresImage(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	login(t, env, client)

	body, contentType := multipartProduct(t, map[string]string{
		"name": "No Image", "price": "5",
	}, "")
	resp, err := client.Post(env.srv.URL+"/admin/add-product", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	env.db.Model(&domain.Product{}).Count(&count)
	assert.Zero(t, count, "no record must be created without an image")
}

func TestAddEditDeleteProductLifecycle(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	login(t, env, client)

	// add
	body, contentType := multipartProduct(t, map[string]string{
		"name":        "Sneakers",
		"category":    "shoes",
		"price":       "49.50",
		"description": "running shoes",
	}, "sneakers.png")
	resp, err := client.Post(env.srv.URL+"/admin/add-product", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin", resp.Header.Get("Location"))

	var p domain.Product
	require.NoError(t, env.db.Where("name = ?", "Sneakers").First(&p).Error)
	assert.NotEmpty(t, p.Image)
	assert.FileExists(t, filepath.Join(env.imgDir, p.Image))

	// edit without a new image keeps the current reference
	body, contentType = multipartProduct(t, map[string]string{"price": "59.00"}, "")
	resp, err = client.Post(fmt.Sprintf("%s/admin/edit-product/%d", env.srv.URL, p.ID), contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var edited domain.Product
	require.NoError(t, env.db.First(&edited, p.ID).Error)
	assert.Equal(t, 59.0, edited.Price)
	assert.Equal(t, p.Image, edited.Image)
	assert.Equal(t, "Sneakers", edited.Name)

	// edit with a new image replaces the asset
	body, contentType = multipartProduct(t, nil, "sneakers-v2.png")
	resp, err = client.Post(fmt.Sprintf("%s/admin/edit-product/%d", env.srv.URL, p.ID), contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var reimaged domain.Product
	require.NoError(t, env.db.First(&reimaged, p.ID).Error)
	assert.NotEqual(t, p.Image, reimaged.Image)
	assert.FileExists(t, filepath.Join(env.imgDir, reimaged.Image))
	assert.NoFileExists(t, filepath.Join(env.imgDir, p.Image), "old asset must be removed")

	// delete removes the row and the asset
	resp, err = client.Get(fmt.Sprintf("%s/admin/delete-product/%d", env.srv.URL, p.ID))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var count int64
	env.db.Model(&domain.Product{}).Count(&count)
	assert.Zero(t, count)
	assert.NoFileExists(t, filepath.Join(env.imgDir, reimaged.Image))
}

func TestDeleteMissingProductFlashesAndKeepsAssets(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	login(t, env, client)

	body, contentType := multipartProduct(t, map[string]string{
		"name": "Lamp", "price": "25",
	}, "lamp.png")
	resp, err := client.Post(env.srv.URL+"/admin/add-product", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var p domain.Product
	require.NoError(t, env.db.Where("name = ?", "Lamp").First(&p).Error)
	require.FileExists(t, filepath.Join(env.imgDir, p.Image))

	resp, err = client.Get(env.srv.URL + "/admin/delete-product/424242")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	page, err := client.Get(env.srv.URL + "/admin")
	require.NoError(t, err)
	defer page.Body.Close()
	html, _ := io.ReadAll(page.Body)
	assert.Contains(t, string(html), "Product not found")

	// existing records and assets stay untouched
	var count int64
	env.db.Model(&domain.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.FileExists(t, filepath.Join(env.imgDir, p.Image))
}

func TestAddDuplicateProductFlashesAndRedirects(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	login(t, env, client)

	add := func() *http.Response {
		body, contentType := multipartProduct(t, map[string]string{
			"name": "Mug", "price": "9.99",
		}, "mug.png")
		resp, err := client.Post(env.srv.URL+"/admin/add-product", contentType, body)
		require.NoError(t, err)
		return resp
	}

	first := add()
	first.Body.Close()
	require.Equal(t, http.StatusFound, first.StatusCode)

	second := add()
	second.Body.Close()
	assert.Equal(t, http.StatusFound, second.StatusCode)
	assert.Equal(t, "/admin/add-product", second.Header.Get("Location"))

	var count int64
	env.db.Model(&domain.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// flash message shows up on the next rendered page
	page, err := client.Get(env.srv.URL + "/admin/add-product")
	require.NoError(t, err)
	defer page.Body.Close()
	html, _ := io.ReadAll(page.Body)
	assert.Contains(t, string(html), "already exists")
}

func TestOrderViews(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	login(t, env, client)

	user := domain.User{ID: 1, Name: "Alice", Email: "alice@example.com", CreatedAt: time.Now()}
	require.NoError(t, env.db.Create(&user).Error)
	require.NoError(t, env.db.Create(&domain.Order{
		ID: 10, UserID: user.ID, Status: domain.OrderStatusPaid, Total: 50,
		Items: []domain.OrderItem{{ID: 100, ProductID: 1, Name: "Lamp", Image: "lamp.png", Qty: 1, Price: 50}},
	}).Error)
	require.NoError(t, env.db.Create(&domain.Order{
		ID: 11, UserID: user.ID, Status: domain.OrderStatusCancelled, Total: 10,
		Items: []domain.OrderItem{{ID: 101, ProductID: 2, Name: "Mug", Image: "mug.png", Qty: 1, Price: 10}},
	}).Error)

	get := func(path string) string {
		resp, err := client.Get(env.srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		html, _ := io.ReadAll(resp.Body)
		return string(html)
	}

	orders := get("/admin/orders")
	assert.Contains(t, orders, "Lamp")
	assert.NotContains(t, orders, "Mug", "cancelled orders stay hidden")

	users := get("/admin/users")
	assert.Contains(t, users, "alice@example.com")

	details := get("/admin/orders/details/1")
	assert.Contains(t, details, "Orders of Alice")
	assert.Contains(t, details, "Order #10")

	printView := get("/admin/orders/print/10")
	assert.Contains(t, printView, "Order #10")
	assert.Contains(t, printView, "Alice")
}

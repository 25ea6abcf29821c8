// Package adminweb implements the session-gated admin controllers:
// login, product management and order reporting views.
package adminweb

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/imagestore"
	"github.com/minimart-io/minimart/internal/order"
	"github.com/minimart-io/minimart/internal/product"
	"github.com/minimart-io/minimart/internal/webserver"
	"github.com/minimart-io/minimart/pkg/common"
)

// session keys
const (
	sesLoggedin = "adminLoggedin"
	sesAdminID  = "adminId"
	sesName     = "adminName"
	sesEmail    = "adminEmail"
	sesLoginErr = "adminLoginErr"

	flashError   = "error"
	flashSuccess = "success"
)

// Handler carries the admin controller dependencies, injected once at
// startup.
type Handler struct {
	db       *gorm.DB
	products *product.Service
	orders   *order.Service
	images   imagestore.Store
}

func NewHandler(db *gorm.DB, products *product.Service, orders *order.Service, images imagestore.Store) *Handler {
	return &Handler{db: db, products: products, orders: orders, images: images}
}

// Register attaches all admin routes under /admin.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/admin/login", h.loginPage)
	e.POST("/admin/login", h.login)
	e.GET("/admin/logout", h.logout)

	g := e.Group("/admin", h.requireAdmin)
	g.GET("", h.listProducts)
	g.GET("/add-product", h.addProductPage)
	g.POST("/add-product", h.addProduct)
	g.GET("/edit-product/:id", h.editProductPage)
	g.POST("/edit-product/:id", h.editProduct)
	g.GET("/delete-product/:id", h.deleteProduct)
	g.GET("/orders", h.listOrders)
	g.GET("/users", h.listUsers)
	g.GET("/orders/details/:userId", h.orderDetails)
	g.GET("/orders/print/:orderId", h.printOrder)
}

// requireAdmin redirects to the login page unless the session carries
// the logged-in flag. One-shot check, no refresh or expiry logic here.
func (h *Handler) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, _ := session.Get(webserver.SessionName, c)
		if logged, ok := sess.Values[sesLoggedin].(bool); !ok || !logged {
			return c.Redirect(http.StatusFound, "/admin/login")
		}
		return next(c)
	}
}

// Flash is a one-time notification consumed by the next rendered page
type Flash struct {
	Kind    string
	Message string
}

func (h *Handler) addFlash(c echo.Context, kind, msg string) {
	sess, _ := session.Get(webserver.SessionName, c)
	sess.AddFlash(msg, kind)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		zap.L().Warn("failed to save session flash", zap.Error(err))
	}
}

// takeFlashes reads and clears the pending flash messages.
func (h *Handler) takeFlashes(c echo.Context) []Flash {
	sess, _ := session.Get(webserver.SessionName, c)
	var out []Flash
	for _, kind := range []string{flashError, flashSuccess} {
		for _, f := range sess.Flashes(kind) {
			if msg, ok := f.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			zap.L().Warn("failed to clear session flashes", zap.Error(err))
		}
	}
	return out
}

func (h *Handler) adminName(c echo.Context) string {
	sess, _ := session.Get(webserver.SessionName, c)
	if name, ok := sess.Values[sesName].(string); ok {
		return name
	}
	return ""
}

// oprLog records an admin operation in the audit trail. Failures are
// logged and swallowed, the audit trail never blocks the operation.
func (h *Handler) oprLog(c echo.Context, action, desc string) {
	entry := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   h.adminName(c),
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := h.db.Create(&entry).Error; err != nil {
		zap.L().Warn("failed to write operation log", zap.String("action", action), zap.Error(err))
	}
}

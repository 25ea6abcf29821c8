package adminweb

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/webserver"
	"github.com/minimart-io/minimart/pkg/common"
)

func (h *Handler) loginPage(c echo.Context) error {
	sess, _ := session.Get(webserver.SessionName, c)
	if logged, ok := sess.Values[sesLoggedin].(bool); ok && logged {
		return c.Redirect(http.StatusFound, "/admin")
	}

	loginErr, _ := sess.Values[sesLoginErr].(bool)
	if loginErr {
		// consumed on render
		delete(sess.Values, sesLoginErr)
		_ = sess.Save(c.Request(), c.Response())
	}
	return c.Render(http.StatusOK, "admin/login", map[string]interface{}{
		"LoginErr": loginErr,
	})
}

func (h *Handler) login(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	sess, _ := session.Get(webserver.SessionName, c)

	var admin domain.SysAdmin
	err := h.db.Where("email = ?", email).First(&admin).Error
	if err != nil || !common.CheckPassword(admin.Password, password) {
		zap.L().Warn("admin login rejected", zap.String("email", email), zap.String("ip", c.RealIP()))
		sess.Values[sesLoginErr] = true
		_ = sess.Save(c.Request(), c.Response())
		return c.Redirect(http.StatusFound, "/admin/login")
	}

	sess.Values[sesLoggedin] = true
	sess.Values[sesAdminID] = admin.ID
	sess.Values[sesName] = admin.Name
	sess.Values[sesEmail] = admin.Email
	delete(sess.Values, sesLoginErr)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to establish session")
	}

	h.db.Model(&domain.SysAdmin{}).Where("id = ?", admin.ID).Update("last_login", time.Now())
	zap.L().Info("admin logged in", zap.String("email", admin.Email), zap.String("ip", c.RealIP()))
	return c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) logout(c echo.Context) error {
	sess, _ := session.Get(webserver.SessionName, c)
	sess.Values[sesLoggedin] = false
	delete(sess.Values, sesAdminID)
	delete(sess.Values, sesName)
	delete(sess.Values, sesEmail)
	_ = sess.Save(c.Request(), c.Response())
	return c.Redirect(http.StatusFound, "/")
}

package adminweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/imagestore"
	"github.com/minimart-io/minimart/internal/order"
)

type orderItemView struct {
	Item          domain.OrderItem
	IsRemoteImage bool
}

type orderView struct {
	Order domain.Order
	Items []orderItemView
}

func (h *Handler) listOrders(c echo.Context) error {
	orders, err := h.orders.AdminList(c.Request().Context())
	if err != nil {
		zap.L().Error("failed to fetch orders", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Server Error")
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		v := orderView{Order: o}
		for _, item := range o.Items {
			v.Items = append(v.Items, orderItemView{
				Item:          item,
				IsRemoteImage: imagestore.IsRemote(item.Image),
			})
		}
		views = append(views, v)
	}
	return c.Render(http.StatusOK, "admin/orders", map[string]interface{}{
		"Orders":  views,
		"Flashes": h.takeFlashes(c),
	})
}

func (h *Handler) listUsers(c echo.Context) error {
	users, err := h.orders.AllUsers(c.Request().Context())
	if err != nil {
		zap.L().Error("failed to fetch users", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Server Error")
	}
	return c.Render(http.StatusOK, "admin/users", map[string]interface{}{
		"Users":   users,
		"Flashes": h.takeFlashes(c),
	})
}

func (h *Handler) orderDetails(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	details, err := h.orders.Details(c.Request().Context(), userID)
	if err == order.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		zap.L().Error("failed to fetch order details", zap.Int64("user_id", userID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Server Error")
	}
	return c.Render(http.StatusOK, "admin/order-details", map[string]interface{}{
		"User":         details.User,
		"PaidOrders":   details.PaidOrders,
		"PlacedOrders": details.PlacedOrders,
		"Flashes":      h.takeFlashes(c),
	})
}

func (h *Handler) printOrder(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid order ID")
	}
	o, err := h.orders.GetWithUser(c.Request().Context(), orderID)
	if err == order.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		zap.L().Error("failed to fetch order", zap.Int64("order_id", orderID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Server Error")
	}
	return c.Render(http.StatusOK, "admin/print-order", map[string]interface{}{
		"Order": o,
		"User":  o.User,
	})
}

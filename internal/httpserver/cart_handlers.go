package httpserver

import (
	"errors"
	"net/http"

	"buildkit-store/internal/cart"
	"buildkit-store/internal/checkout"
	"buildkit-store/internal/domain"
	"buildkit-store/internal/service/account"
	"buildkit-store/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type cartLineView struct {
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

type cartView struct {
	Items      []cartLineView    `json:"items"`
	ItemCount  int               `json:"itemCount"`
	TotalCents int64             `json:"totalCents"`
	Delivery   checkout.Delivery `json:"delivery"`
}

func buildCartView(c *gin.Context, catalogSvc *catalog.Service) cartView {
	sess := currentSession(c)
	crt := cart.New(sess)
	items := make([]cartLineView, 0, crt.Len())
	for _, line := range crt.Lines() {
		view := cartLineView{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.TotalCents(),
		}
		if product, err := catalogSvc.ProductByID(c.Request.Context(), line.ProductID); err == nil {
			view.ProductName = product.Name
		}
		items = append(items, view)
	}
	return cartView{
		Items:      items,
		ItemCount:  crt.ItemCount(),
		TotalCents: crt.TotalCents(),
		Delivery:   checkout.DeliveryFromSession(sess),
	}
}

func getCart(catalogSvc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, buildCartView(c, catalogSvc))
	}
}

type addCartItemRequest struct {
	Quantity int  `json:"quantity" binding:"required,min=1"`
	Override bool `json:"override"`
}

func addCartItem(catalogSvc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
			return
		}
		product, err := catalogSvc.ProductByID(c.Request.Context(), c.Param("productID"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup product failed"})
			return
		}

		crt := cart.New(currentSession(c))
		if err := crt.Add(*product, req.Quantity, req.Override); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"quantity": quantityOf(crt, product.ID),
		})
	}
}

func removeCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		crt := cart.New(currentSession(c))
		if err := crt.Remove(c.Param("productID")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "remove failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func postDelivery(checkoutSvc *checkout.Service, accountSvc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkout.DeliveryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		customer := currentCustomer(c, accountSvc)
		if err := checkoutSvc.SetDelivery(currentSession(c), in, customer); err != nil {
			var fieldErrs checkout.FieldErrors
			if errors.As(err, &fieldErrs) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save delivery failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"delivery": checkout.DeliveryFromSession(currentSession(c)),
		})
	}
}

func quantityOf(crt *cart.Cart, productID string) int {
	for _, line := range crt.Lines() {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

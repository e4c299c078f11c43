package httpserver

import (
	"errors"
	"net/http"

	"buildkit-store/internal/checkout"
	"buildkit-store/internal/service/account"
	"github.com/gin-gonic/gin"
)

func postCheckout(checkoutSvc *checkout.Service, accountSvc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		customer := currentCustomer(c, accountSvc)

		_, err := checkoutSvc.Checkout(c.Request.Context(), sess, customer)
		if err != nil {
			var fieldErrs checkout.FieldErrors
			switch {
			case errors.Is(err, checkout.ErrEmptyCart), errors.As(err, &fieldErrs):
				// Guard failures return the visitor to the cart with no
				// state change.
				c.Redirect(http.StatusSeeOther, "/cart")
			case errors.Is(err, checkout.ErrSessionNotCleared):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "order was created but the cart could not be cleared"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed, please try again"})
			}
			return
		}
		c.Redirect(http.StatusSeeOther, "/checkout/confirmation")
	}
}

// getConfirmation serves the fire-once confirmation payload staged by a
// successful checkout. A second read redirects back to the cart.
func getConfirmation() gin.HandlerFunc {
	return func(c *gin.Context) {
		conf, ok := checkout.PopConfirmation(currentSession(c))
		if !ok {
			c.Redirect(http.StatusSeeOther, "/cart")
			return
		}
		c.JSON(http.StatusOK, conf)
	}
}

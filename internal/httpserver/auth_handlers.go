package httpserver

import (
	"errors"
	"net/http"

	"buildkit-store/internal/domain"
	orderrepo "buildkit-store/internal/repository/order"
	"buildkit-store/internal/service/account"
	"github.com/gin-gonic/gin"
)

func postRegister(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in account.RegistrationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := svc.BeginRegistration(c.Request.Context(), currentSession(c), in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "verification code sent"})
	}
}

func postResendCode(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ResendCode(c.Request.Context(), currentSession(c)); err != nil {
			if errors.Is(err, account.ErrNoRegistration) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "registration session expired, please register again"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "resend failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "verification code sent"})
	}
}

type verifyRequest struct {
	Code string `json:"code" binding:"required"`
}

func postVerify(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification code required"})
			return
		}
		customer, err := svc.VerifyRegistration(c.Request.Context(), currentSession(c), req.Code)
		if err != nil {
			switch {
			case errors.Is(err, account.ErrInvalidCode):
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification code"})
			case errors.Is(err, account.ErrCodeExpired):
				c.JSON(http.StatusBadRequest, gin.H{"error": "verification code has expired, please register again"})
			case errors.Is(err, account.ErrNoRegistration):
				c.JSON(http.StatusBadRequest, gin.H{"error": "registration session expired, please register again"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
			}
			return
		}
		c.JSON(http.StatusCreated, customer)
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func postLogin(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}
		customer, access, refresh, err := svc.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, account.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"customer":     customer,
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    svc.AccessTTLSeconds(),
		})
	}
}

func listAccountOrders(svc *account.Service, orders orderrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer := currentCustomer(c, svc)
		if customer == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		result, err := orders.ListByCustomer(c.Request.Context(), customer.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list orders failed"})
			return
		}
		if result == nil {
			result = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"results": result, "total": len(result)})
	}
}

package apistub

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SniraJavas/EcommerceWebApp/internal/shop"
)

func (s *Server) listProducts(c *gin.Context) {
	s.mu.Lock()
	out := append([]shop.Product{}, s.products...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("product %s not found", id)})
}

func (s *Server) login(c *gin.Context) {
	var creds shop.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	s.mu.Lock()
	password, ok := s.accounts[creds.Email]
	s.mu.Unlock()
	if !ok || password != creds.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.issueToken(creds.Email)
	if err != nil {
		s.log.Error("token signing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) register(c *gin.Context) {
	var reg shop.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if reg.Email == "" || reg.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	s.mu.Lock()
	_, exists := s.accounts[reg.Email]
	if !exists {
		s.accounts[reg.Email] = reg.Password
	}
	s.mu.Unlock()

	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// placeOrder accepts a draft, recomputes the total server side, and
// rejects drafts that do not add up. The recorded price is the draft's
// snapshot, not the current catalog price.
func (s *Server) placeOrder(c *gin.Context) {
	var draft shop.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if len(draft.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order has no items"})
		return
	}
	if !draft.TotalAmount.Equal(shop.TotalFromItems(draft.Items)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total does not match items"})
		return
	}

	order := shop.Order{
		ID:          newOrderID(),
		UserID:      c.GetString(userKey),
		Items:       append([]shop.OrderItem(nil), draft.Items...),
		TotalAmount: draft.TotalAmount,
		OrderDate:   time.Now().UTC(),
		Status:      shop.StatusPending,
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, order)
}

func (s *Server) listOrders(c *gin.Context) {
	owner := c.GetString(userKey)

	s.mu.Lock()
	out := []shop.Order{}
	for _, o := range s.orders {
		if o.UserID == owner {
			out = append(out, o)
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

// getOrder returns an order by id. Another account's order answers 404,
// not 403, so order ids leak nothing.
func (s *Server) getOrder(c *gin.Context) {
	id := c.Param("id")
	owner := c.GetString(userKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id && o.UserID == owner {
			c.JSON(http.StatusOK, o)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("order %s not found", id)})
}

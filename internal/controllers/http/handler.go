package http

import (
	"net/http"
	"webshop-service/internal/domain"
	"webshop-service/internal/notify"
	"webshop-service/internal/repository"
	"webshop-service/internal/services"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services behind the HTTP API. Carts and Products
// back the per-request cart manager; Products must not be cached.
type Dependencies struct {
	Catalog  *services.Catalog
	Checkout *services.CheckoutService
	Orders   *services.OrderHistory
	Accounts *services.AccountService
	Carts    repository.CartRepository
	Products repository.ProductRepository
	Emitter  notify.Emitter
}

type Handler struct {
	deps Dependencies
}

func NewHandler(deps Dependencies) *Handler {
	if deps.Emitter == nil {
		deps.Emitter = notify.Discard{}
	}
	return &Handler{deps: deps}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/categories", h.ListCategories)

	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.PATCH("/cart/items/:id", h.UpdateCartItem)
	r.DELETE("/cart/items/:id", h.RemoveCartItem)
	r.DELETE("/cart", h.ClearCart)

	r.POST("/checkout", h.Checkout)
	r.GET("/orders", h.ListOrders)

	r.POST("/auth/signup", h.SignUp)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)
}

func (h *Handler) cart() *services.CartManager {
	return services.NewCartManager(h.deps.Carts, h.deps.Products, h.deps.Emitter)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
	_ = c.Error(err)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.deps.Catalog.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.deps.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.deps.Catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.cart().Load(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCartResponse(cart))
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.cart().AddItem(c.Request.Context(), sessionFrom(c), req.ProductID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCartResponse(cart))
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cart, err := h.cart().UpdateQuantity(c.Request.Context(), sessionFrom(c), c.Param("id"), *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCartResponse(cart))
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	cart, err := h.cart().RemoveItem(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewCartResponse(cart))
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.cart().Clear(c.Request.Context(), sessionFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Checkout(c *gin.Context) {
	var form domain.ShippingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	s := sessionFrom(c)
	cart := h.cart()
	if !s.IsGuest() {
		// The form is checked before the cart read so a bad form never
		// depends on the store.
		if err := form.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if _, err := cart.Load(ctx, s); err != nil {
			respondError(c, err)
			return
		}
	}

	order, err := h.deps.Checkout.Submit(ctx, s, form, cart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewOrderResponse(*order))
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListOrders(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) SignUp(c *gin.Context) {
	var form domain.SignUpForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.deps.Accounts.SignUp(c.Request.Context(), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SignUpResponse{UserID: s.UserID, Email: s.Email})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.deps.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewLoginResponse(session))
}

func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString(accessTokenKey)
	if err := h.deps.Accounts.Logout(c.Request.Context(), sessionFrom(c), token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.deps.Accounts.GetProfile(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var changes domain.ProfileChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.deps.Accounts.UpdateProfile(c.Request.Context(), sessionFrom(c), changes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

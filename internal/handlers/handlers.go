// Package handlers exposes the storefront over an HTTP JSON API. Every
// route operates on the caller's session; the session is established by
// the cookie middleware in middleware.go.
package handlers

import (
	"context"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"autopart/internal/assist"
	"autopart/internal/catalog"
	db "autopart/internal/database"
	"autopart/internal/order"
	"autopart/internal/session"
	"autopart/internal/utils"
	"autopart/models"
)

const maxUploadBytes = 10 << 20

// Assistant is the AI assist boundary the handlers depend on. Failures
// degrade per operation: nil intent, empty description, or an error the
// handler replaces with the fixed apology string.
type Assistant interface {
	ParseSearchQuery(ctx context.Context, query string) *models.SearchIntent
	IdentifyPart(ctx context.Context, image []byte, mimeType string) string
	Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}

type Server struct {
	db       *gorm.DB
	products []models.Product
	sessions *session.Registry
	assist   Assistant
	log      *logrus.Logger
}

func New(DB *gorm.DB, products []models.Product, sessions *session.Registry, assistant Assistant, log *logrus.Logger) *Server {
	return &Server{
		db:       DB,
		products: products,
		sessions: sessions,
		assist:   assistant,
		log:      log,
	}
}

func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.ensureSession)
	api.HandleFunc("/catalog", s.catalogHandler).Methods(http.MethodGet)
	api.HandleFunc("/meta", s.metaHandler).Methods(http.MethodGet)
	api.HandleFunc("/filters", s.updateFiltersHandler).Methods(http.MethodPost)
	api.HandleFunc("/filters/reset", s.resetFiltersHandler).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", s.productHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.viewCartHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart/items", s.addToCartHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}/adjust", s.adjustQuantityHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}", s.removeFromCartHandler).Methods(http.MethodDelete)
	api.HandleFunc("/checkout", s.checkoutHandler).Methods(http.MethodPost)
	api.HandleFunc("/orders", s.placeOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/search", s.smartSearchHandler).Methods(http.MethodPost)
	api.HandleFunc("/identify", s.identifyHandler).Methods(http.MethodPost)
	api.HandleFunc("/chat", s.chatHandler).Methods(http.MethodPost)
	api.HandleFunc("/navigate", s.navigateHandler).Methods(http.MethodPost)
	api.HandleFunc("/view", s.viewHandler).Methods(http.MethodGet)
	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) metaHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, models.MetaResponse{
		Categories:        catalog.Categories,
		Makes:             catalog.Makes,
		ModelsByMake:      catalog.ModelsByMake,
		SeriesByMake:      catalog.SeriesByMake,
		PerformanceLevels: catalog.PerformanceLevels,
	})
}

func (s *Server) catalogHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	criteria := sess.Criteria
	sess.Unlock()

	s.writeCatalog(w, criteria)
}

func (s *Server) updateFiltersHandler(w http.ResponseWriter, r *http.Request) {
	var req models.FilterUpdateRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid filter update")
		return
	}

	sess := sessionFrom(r)
	sess.Lock()
	if req.Manufacturer != nil {
		sess.Criteria.Manufacturer = *req.Manufacturer
	}
	if req.Series != nil {
		sess.Criteria.Series = *req.Series
	}
	if req.Model != nil {
		sess.Criteria.Model = *req.Model
	}
	if req.Year != nil {
		sess.Criteria.Year = *req.Year
	}
	if req.Performance != nil {
		sess.Criteria.Performance = *req.Performance
	}
	if req.Categories != nil {
		sess.Criteria.Categories = *req.Categories
	}
	if req.MaxPrice != nil {
		ceiling := *req.MaxPrice
		if ceiling < 0 || ceiling > catalog.MaxPriceCeiling {
			ceiling = catalog.MaxPriceCeiling
		}
		sess.Criteria.MaxPrice = ceiling
	}
	criteria := sess.Criteria
	sess.Unlock()

	s.writeCatalog(w, criteria)
}

func (s *Server) resetFiltersHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	sess.Criteria = catalog.NewFilterCriteria()
	criteria := sess.Criteria
	sess.Unlock()

	s.writeCatalog(w, criteria)
}

// writeCatalog renders the visible subset for the criteria. An empty
// result is rendered as an explicit empty list, never an error.
func (s *Server) writeCatalog(w http.ResponseWriter, criteria models.FilterCriteria) {
	filtered := catalog.ApplyFilters(s.products, criteria)
	utils.WriteJSON(w, http.StatusOK, models.CatalogResponse{
		Products: filtered,
		Criteria: criteria,
		Count:    len(filtered),
	})
}

func (s *Server) productHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	product, err := db.GetProduct(s.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		s.log.WithError(err).Error("product lookup failed")
		utils.WriteError(w, http.StatusInternalServerError, "could not retrieve product")
		return
	}

	sess := sessionFrom(r)
	sess.Lock()
	sess.View = models.ProductDetailView{ProductID: product.ID, Quantity: 1}
	sess.Unlock()

	utils.WriteJSON(w, http.StatusOK, product)
}

func (s *Server) viewCartHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	resp := cartResponse(sess)
	sess.Unlock()

	utils.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) addToCartHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AddToCartRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid add to cart request")
		return
	}
	if req.ProductID == "" {
		utils.WriteError(w, http.StatusBadRequest, "product id not specified")
		return
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		utils.WriteError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	product, err := db.GetProduct(s.db, req.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		s.log.WithError(err).Error("product lookup failed")
		utils.WriteError(w, http.StatusInternalServerError, "could not retrieve product")
		return
	}

	sess := sessionFrom(r)
	sess.Lock()
	line := sess.Cart.Add(product, quantity)
	count := sess.Cart.Count()
	sess.Unlock()

	s.log.WithFields(logrus.Fields{
		"session": sess.ID,
		"product": product.ID,
		"qty":     line.Quantity,
	}).Info("added to cart")

	utils.WriteJSON(w, http.StatusOK, models.AddToCartResponse{Item: line, CartCount: count})
}

func (s *Server) adjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AdjustQuantityRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid quantity adjustment")
		return
	}
	if req.Delta != 1 && req.Delta != -1 {
		utils.WriteError(w, http.StatusBadRequest, "delta must be 1 or -1")
		return
	}

	sess := sessionFrom(r)
	sess.Lock()
	ok := sess.Cart.Adjust(mux.Vars(r)["id"], req.Delta)
	resp := cartResponse(sess)
	sess.Unlock()

	if !ok {
		utils.WriteError(w, http.StatusNotFound, "no such cart line")
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) removeFromCartHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	sess.Cart.Remove(mux.Vars(r)["id"])
	resp := cartResponse(sess)
	sess.Unlock()

	utils.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()

	if sess.Cart.Len() == 0 {
		utils.WriteError(w, http.StatusConflict, "cart is empty")
		return
	}
	sess.View = models.CheckoutView{}
	utils.WriteJSON(w, http.StatusOK, viewResponse(sess.View))
}

func (s *Server) placeOrderHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	empty := sess.Cart.Len() == 0
	sess.Unlock()
	if empty {
		utils.WriteError(w, http.StatusConflict, "cannot place an order with an empty cart")
		return
	}

	// The session lock is not held across the settlement delay; the flow's
	// own state rejects a second submit inside the window.
	number, err := sess.Flow.Submit(r.Context(), func(orderNumber string) {
		sess.Lock()
		sess.Cart.Clear()
		sess.View = models.OrderConfirmedView{OrderNumber: orderNumber}
		sess.Unlock()
	})
	if errors.Is(err, order.ErrSubmitInFlight) {
		utils.WriteError(w, http.StatusConflict, "an order is already being processed")
		return
	}
	if err != nil {
		s.log.WithError(err).Warn("order submission interrupted")
		utils.WriteError(w, http.StatusInternalServerError, "order submission interrupted")
		return
	}

	s.log.WithFields(logrus.Fields{"session": sess.ID, "order": number}).Info("order placed")
	utils.WriteJSON(w, http.StatusOK, models.PlaceOrderResponse{
		OrderNumber: number,
		Status:      order.StateConfirmed.String(),
	})
}

func (s *Server) smartSearchHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid search request")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// A failed or unparseable query leaves the current filters untouched;
	// the client just sees the unchanged catalog.
	intent := s.assist.ParseSearchQuery(r.Context(), req.Query)

	sess := sessionFrom(r)
	sess.Lock()
	if intent != nil {
		sess.Criteria = catalog.ApplySearchIntent(sess.Criteria, *intent)
	}
	criteria := sess.Criteria
	sess.Unlock()

	s.writeCatalog(w, criteria)
}

func (s *Server) identifyHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "no image file provided")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "could not read image")
		return
	}

	description := s.assist.IdentifyPart(r.Context(), image, header.Header.Get("Content-Type"))
	if description == "" {
		description = assist.IdentifyFallback
	}
	utils.WriteJSON(w, http.StatusOK, models.IdentifyResponse{Description: description})
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid chat request")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	sess := sessionFrom(r)
	sess.Lock()
	history := slices.Clone(sess.Chat)
	sess.Chat = append(sess.Chat, models.ChatMessage{
		Role:      models.ChatRoleUser,
		Text:      message,
		Timestamp: time.Now().UTC(),
	})
	sess.Unlock()

	// The log keeps growing even when the remote call fails; the failure
	// is only visible as the apology reply.
	reply, err := s.assist.Chat(r.Context(), history, message)
	if err != nil {
		s.log.WithError(err).Warn("chat call failed")
		reply = assist.ChatErrorReply
	} else if reply == "" {
		reply = assist.ChatEmptyReply
	}

	sess.Lock()
	sess.Chat = append(sess.Chat, models.ChatMessage{
		Role:      models.ChatRoleModel,
		Text:      reply,
		Timestamp: time.Now().UTC(),
	})
	messages := slices.Clone(sess.Chat)
	sess.Unlock()

	utils.WriteJSON(w, http.StatusOK, models.ChatResponse{Reply: reply, Messages: messages})
}

func (s *Server) navigateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.NavigateRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid navigation request")
		return
	}

	sess := sessionFrom(r)
	sess.Lock()
	defer sess.Unlock()

	switch req.View {
	case "catalog":
		sess.View = models.CatalogView{}
	case "cart":
		sess.View = models.CartView{}
	case "checkout":
		if sess.Cart.Len() == 0 {
			utils.WriteError(w, http.StatusConflict, "cart is empty")
			return
		}
		sess.View = models.CheckoutView{}
	case "account":
		sess.View = models.AccountView{Profile: models.DemoProfile()}
	case "productDetail":
		if req.ProductID == "" {
			utils.WriteError(w, http.StatusBadRequest, "product id not specified")
			return
		}
		product, err := db.GetProduct(s.db, req.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			s.log.WithError(err).Error("product lookup failed")
			utils.WriteError(w, http.StatusInternalServerError, "could not retrieve product")
			return
		}
		quantity := req.Quantity
		if quantity < 1 {
			quantity = 1
		}
		sess.View = models.ProductDetailView{ProductID: product.ID, Quantity: quantity}
	default:
		// orderConfirmed is only reachable through a completed order.
		utils.WriteError(w, http.StatusBadRequest, "unknown or unreachable view")
		return
	}

	utils.WriteJSON(w, http.StatusOK, viewResponse(sess.View))
}

func (s *Server) viewHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Lock()
	resp := viewResponse(sess.View)
	sess.Unlock()

	utils.WriteJSON(w, http.StatusOK, resp)
}

func cartResponse(sess *session.Session) models.CartResponse {
	return models.CartResponse{
		Items: sess.Cart.Items(),
		Total: sess.Cart.Total(),
		Count: sess.Cart.Count(),
	}
}

func viewResponse(v models.View) models.ViewResponse {
	return models.ViewResponse{View: v.ViewName(), Data: v}
}

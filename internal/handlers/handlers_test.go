package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"autopart/internal/assist"
	db "autopart/internal/database"
	"autopart/internal/handlers"
	"autopart/internal/session"
	"autopart/models"
)

// --- Setup ---

// viewEnvelope decodes just the view name; the payload under "data" is a
// tagged union the server only ever writes.
type viewEnvelope struct {
	View string `json:"view"`
}

type fakeAssistant struct {
	intent      *models.SearchIntent
	description string
	reply       string
	err         error
}

func (f *fakeAssistant) ParseSearchQuery(context.Context, string) *models.SearchIntent {
	return f.intent
}

func (f *fakeAssistant) IdentifyPart(context.Context, []byte, string) string {
	return f.description
}

func (f *fakeAssistant) Chat(context.Context, []models.ChatMessage, string) (string, error) {
	return f.reply, f.err
}

var (
	storeOnce sync.Once
	storeDB   *gorm.DB
	storeList []models.Product
	storeErr  error
)

func catalogStore(t *testing.T) (*gorm.DB, []models.Product) {
	t.Helper()
	storeOnce.Do(func() {
		storeDB, storeErr = db.Connect()
		if storeErr != nil {
			return
		}
		if storeErr = db.Migrate(storeDB); storeErr != nil {
			return
		}
		if storeErr = db.SeedCatalog(storeDB); storeErr != nil {
			return
		}
		storeList, storeErr = db.GetProducts(storeDB)
	})
	require.NoError(t, storeErr)
	return storeDB, storeList
}

// newTestClient spins up the full router and a cookie-carrying client, so
// every test exercises its own session.
func newTestClient(t *testing.T, assistant handlers.Assistant) (*httptest.Server, *http.Client) {
	t.Helper()
	DB, products := catalogStore(t)

	log := logrus.New()
	log.SetOutput(io.Discard)

	sessions := session.NewRegistry(time.Millisecond)
	srv := handlers.New(DB, products, sessions, assistant, log)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// --- Tests ---

func TestCatalog_FullSeededList(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{})

	var resp models.CatalogResponse
	status := doJSON(t, client, http.MethodGet, ts.URL+"/api/catalog", nil, &resp)

	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 14, resp.Count)
	assert.Equal(t, "1", resp.Products[0].ID)
	assert.Equal(t, "14", resp.Products[13].ID)
}

func TestFilters_UpdateAndReset(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{})

	manufacturer, year := "Toyota", 2019
	var resp models.CatalogResponse
	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/filters",
		models.FilterUpdateRequest{Manufacturer: &manufacturer, Year: &year}, &resp)

	require.Equal(t, http.StatusOK, status)
	ids := make([]string, 0, resp.Count)
	for _, p := range resp.Products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"1", "2", "7", "10", "12", "14"}, ids)

	status = doJSON(t, client, http.MethodPost, ts.URL+"/api/filters/reset", nil, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 14, resp.Count)
	assert.Empty(t, resp.Criteria.Manufacturer)
}

func TestCart_AddAdjustRemove(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{})

	var added models.AddToCartResponse
	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/cart/items",
		models.AddToCartRequest{ProductID: "1", Quantity: 2}, &added)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, added.Item.Quantity)

	status = doJSON(t, client, http.MethodPost, ts.URL+"/api/cart/items",
		models.AddToCartRequest{ProductID: "1", Quantity: 3}, &added)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, added.Item.Quantity, "same product merges into one line")
	assert.Equal(t, 5, added.CartCount)

	var cartResp models.CartResponse
	status = doJSON(t, client, http.MethodGet, ts.URL+"/api/cart", nil, &cartResp)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, cartResp.Items, 1)
	assert.InDelta(t, 5*89.99, cartResp.Total, 0.001)

	status = doJSON(t, client, http.MethodPost, ts.URL+"/api/cart/items/1/adjust",
		models.AdjustQuantityRequest{Delta: -1}, &cartResp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4, cartResp.Items[0].Quantity)

	// Removing an unknown line is a no-op, not an error.
	status = doJSON(t, client, http.MethodDelete, ts.URL+"/api/cart/items/ghost", nil, &cartResp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4, cartResp.Count)

	status = doJSON(t, client, http.MethodDelete, ts.URL+"/api/cart/items/1", nil, &cartResp)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, cartResp.Items)
	assert.Equal(t, 0.0, cartResp.Total)
}

func TestCart_AdjustUnknownLine(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{})

	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/cart/items/ghost/adjust",
		models.AdjustQuantityRequest{Delta: 1}, nil)

	assert.Equal(t, http.StatusNotFound, status)
}

func TestPlaceOrder_ClearsCartAndConfirms(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{})

	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/cart/items",
		models.AddToCartRequest{ProductID: "3"}, nil)
	require.Equal(t, http.StatusOK, status)

	var view viewEnvelope
	status = doJSON(t, client, http.MethodPost, ts.URL+"/api/checkout", nil, &view)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "checkout", view.View)

	var placed models.PlaceOrderResponse
	status = doJSON(t, client, http.MethodPost, ts.URL+"/api/orders", nil, &placed)
	require.Equal(t, http.StatusOK, status)
	assert.Regexp(t, `^ORD-\d{5}$`, placed.OrderNumber)
	assert.Equal(t, "confirmed", placed.Status)

	var cartResp models.CartResponse
	status = doJSON(t, client, http.MethodGet, ts.URL+"/api/cart", nil, &cartResp)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, cartResp.Items)

	status = doJSON(t, client, http.MethodGet, ts.URL+"/api/view", nil, &view)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "orderConfirmed", view.View)
}

func TestPlaceOrder_EmptyCartRejected(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{})

	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/orders", nil, nil)

	assert.Equal(t, http.StatusConflict, status)
}

func TestSmartSearch_AppliesParsedIntent(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{
		intent: &models.SearchIntent{Make: "Toyota", Year: 2019},
	})

	var resp models.CatalogResponse
	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/search",
		models.SearchRequest{Query: "2019 toyota parts"}, &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Toyota", resp.Criteria.Manufacturer)
	assert.Equal(t, 2019, resp.Criteria.Year)
	assert.Equal(t, 6, resp.Count)
}

func TestSmartSearch_FailureLeavesFiltersUntouched(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{intent: nil})

	manufacturer := "Honda"
	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/filters",
		models.FilterUpdateRequest{Manufacturer: &manufacturer}, nil)
	require.Equal(t, http.StatusOK, status)

	var resp models.CatalogResponse
	status = doJSON(t, client, http.MethodPost, ts.URL+"/api/search",
		models.SearchRequest{Query: "something unparseable"}, &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Honda", resp.Criteria.Manufacturer, "failed parse never clears filters")
}

func TestSmartSearch_EmptyQueryIgnored(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{})

	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/search",
		models.SearchRequest{Query: "  "}, nil)

	assert.Equal(t, http.StatusNoContent, status)
}

func TestIdentify_DescriptionAndFallback(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{description: "Looks like a brake rotor."})

	var resp models.IdentifyResponse
	status := postImage(t, client, ts.URL+"/api/identify", []byte{0xff, 0xd8, 0xff}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Looks like a brake rotor.", resp.Description)

	ts2, client2 := newTestClient(t, &fakeAssistant{description: ""})
	status = postImage(t, client2, ts2.URL+"/api/identify", []byte{0xff, 0xd8, 0xff}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, assist.IdentifyFallback, resp.Description)
}

func TestIdentify_MissingFile(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/identify", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_ReplyAndLogGrowth(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{reply: "Use a torque wrench."})

	var resp models.ChatResponse
	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/chat",
		models.ChatRequest{Message: "How do I install rotors?"}, &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Use a torque wrench.", resp.Reply)
	// Greeting + user turn + model turn.
	require.Len(t, resp.Messages, 3)
	assert.Equal(t, models.ChatRoleUser, resp.Messages[1].Role)
	assert.Equal(t, models.ChatRoleModel, resp.Messages[2].Role)
}

func TestChat_FailureKeepsLogAndApologizes(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{err: errors.New("connection reset")})

	var resp models.ChatResponse
	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/chat",
		models.ChatRequest{Message: "hello?"}, &resp)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, assist.ChatErrorReply, resp.Reply)
	assert.Len(t, resp.Messages, 3, "the conversation log is never dropped on failure")
}

func TestNavigate(t *testing.T) {
	ts, client := newTestClient(t, &fakeAssistant{})

	var view viewEnvelope
	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/navigate",
		models.NavigateRequest{View: "account"}, &view)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "account", view.View)

	status = doJSON(t, client, http.MethodPost, ts.URL+"/api/navigate",
		models.NavigateRequest{View: "checkout"}, nil)
	assert.Equal(t, http.StatusConflict, status, "checkout needs a non-empty cart")

	status = doJSON(t, client, http.MethodPost, ts.URL+"/api/navigate",
		models.NavigateRequest{View: "orderConfirmed"}, nil)
	assert.Equal(t, http.StatusBadRequest, status, "confirmation is not directly navigable")
}

func TestSessions_IsolatedCarts(t *testing.T) {
	ts, clientA := newTestClient(t, &fakeAssistant{})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	clientB := &http.Client{Jar: jar}

	status := doJSON(t, clientA, http.MethodPost, ts.URL+"/api/cart/items",
		models.AddToCartRequest{ProductID: "5", Quantity: 2}, nil)
	require.Equal(t, http.StatusOK, status)

	var cartResp models.CartResponse
	status = doJSON(t, clientB, http.MethodGet, ts.URL+"/api/cart", nil, &cartResp)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, cartResp.Items)
}

func postImage(t *testing.T, client *http.Client, url string, image []byte, out interface{}) int {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "part.jpg")
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

package cartControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/PrasannaGadalGIT/ecom-blink/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CartItem{}))
	return db
}

func newCartRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/cart/add", AddCartItem(db))
	r.GET("/cart/get/:userId", GetCart(db))
	r.DELETE("/cart/remove/:id", RemoveCartItemByID(db))
	r.DELETE("/cart/remove/:id/:productName", RemoveCartItemByProduct(db))
	r.DELETE("/cart/clear/:userId", ClearCart(db))
	return r
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddCartItemAccumulatesQuantity(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)

	payload := gin.H{"userId": 1, "productName": "Widget", "price": 10, "quantity": 1}

	w := postJSON(r, "/cart/add", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/cart/add", payload)
	assert.Equal(t, http.StatusOK, w.Code)

	var items []models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

// Two concurrent first adds of the same (user, product) both miss the
// existence check; the loser's insert then hits the unique index. sqlite
// serializes writers so the interleaving cannot happen live here —
// instead the winner's row is inserted up front and the loser's lookup is
// forced to miss once, reproducing the exact sequence: not-found →
// insert → duplicate key → rerun into the increment path.
func TestAddCartItemRecoversFromLostInsertRace(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&models.CartItem{UserID: 9, ProductName: "Widget", Price: 10, Quantity: 1}).Error)

	missed := false
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("miss_first_lookup", func(tx *gorm.DB) {
		if !missed {
			missed = true
			tx.AddError(gorm.ErrRecordNotFound)
		}
	}))

	r := newCartRouter(db)
	w := postJSON(r, "/cart/add", gin.H{"userId": 9, "productName": "Widget", "price": 10, "quantity": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	var items []models.CartItem
	require.NoError(t, db.Where("user_id = ?", 9).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddCartItemAcceptsTitleAlias(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)

	w := postJSON(r, "/cart/add", gin.H{
		"userId":    2,
		"title":     "Gizmo",
		"image_url": "http://example.com/g.png",
		"price":     4.5,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, db.Where("user_id = ?", 2).First(&item).Error)
	assert.Equal(t, "Gizmo", item.ProductName)
	assert.Equal(t, "http://example.com/g.png", item.ImageURL)
	assert.Equal(t, 1, item.Quantity) // defaulted
}

func TestAddCartItemValidation(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)

	// missing userId
	w := postJSON(r, "/cart/add", gin.H{"productName": "Widget", "price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing productName
	w = postJSON(r, "/cart/add", gin.H{"userId": 1, "price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// negative price
	w = postJSON(r, "/cart/add", gin.H{"userId": 1, "productName": "Widget", "price": -3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveCartItemByIDLeavesOthers(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)

	first := models.CartItem{UserID: 1, ProductName: "Widget", Price: 10, Quantity: 1}
	second := models.CartItem{UserID: 1, ProductName: "Gadget", Price: 20, Quantity: 2}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/cart/remove/%d", first.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var items []models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, "Gadget", items[0].ProductName)

	// unknown id
	req = httptest.NewRequest("DELETE", "/cart/remove/9999", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveCartItemByProduct(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)

	require.NoError(t, db.Create(&models.CartItem{UserID: 3, ProductName: "Widget", Price: 10, Quantity: 1}).Error)

	req := httptest.NewRequest("DELETE", "/cart/remove/3/Widget", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CartItem{}).Where("user_id = ?", 3).Count(&count)
	assert.Zero(t, count)

	// already gone
	req = httptest.NewRequest("DELETE", "/cart/remove/3/Widget", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCart(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)

	// empty cart is an empty list, not null
	req := httptest.NewRequest("GET", "/cart/get/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	// non-numeric user id
	req = httptest.NewRequest("GET", "/cart/get/abc", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, db.Create(&models.CartItem{UserID: 7, ProductName: "Widget", Price: 10, Quantity: 1}).Error)

	req = httptest.NewRequest("GET", "/cart/get/7", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var items []models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].ProductName)
}

func TestClearCart(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)

	require.NoError(t, db.Create(&models.CartItem{UserID: 5, ProductName: "Widget", Price: 10, Quantity: 1}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: 5, ProductName: "Gadget", Price: 20, Quantity: 1}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: 6, ProductName: "Widget", Price: 10, Quantity: 1}).Error)

	req := httptest.NewRequest("DELETE", "/cart/clear/5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CartItem{}).Where("user_id = ?", 5).Count(&count)
	assert.Zero(t, count)

	// other users untouched
	db.Model(&models.CartItem{}).Where("user_id = ?", 6).Count(&count)
	assert.EqualValues(t, 1, count)
}

package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/lifecycle"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShopService struct {
	mock.Mock
}

func (m *MockShopService) PublicList(ctx context.Context) ([]*model.Shop, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Shop), args.Error(1)
}

func (m *MockShopService) AdminGroups(ctx context.Context, p *policy.Principal) (map[string][]*model.Shop, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]*model.Shop), args.Error(1)
}

func (m *MockShopService) AdminDetail(ctx context.Context, p *policy.Principal, id int) (*model.Shop, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shop), args.Error(1)
}

func (m *MockShopService) MyShops(ctx context.Context, p *policy.Principal) ([]*model.Shop, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]*model.Shop), args.Error(1)
}

func (m *MockShopService) MyShopDetail(ctx context.Context, p *policy.Principal, id int) (*model.Shop, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shop), args.Error(1)
}

func (m *MockShopService) Submit(ctx context.Context, p *policy.Principal, name, description string) (*model.Shop, error) {
	args := m.Called(ctx, p, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shop), args.Error(1)
}

func (m *MockShopService) Moderate(ctx context.Context, p *policy.Principal, id int, action lifecycle.ModerationAction) error {
	return m.Called(ctx, p, id, action).Error(0)
}

func (m *MockShopService) UploadDocument(ctx context.Context, p *policy.Principal, id int, docType, number string, file *multipart.FileHeader) (*model.ShopDocument, error) {
	args := m.Called(ctx, p, id, docType, number, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShopDocument), args.Error(1)
}

func (m *MockShopService) UploadAttachment(ctx context.Context, p *policy.Principal, id int, name string, file *multipart.FileHeader) (*model.ShopAttachment, error) {
	args := m.Called(ctx, p, id, name, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShopAttachment), args.Error(1)
}

var (
	admin  = &policy.Principal{UserID: 1, Username: "admin", IsStaff: true, IsActive: true}
	seller = &policy.Principal{UserID: 7, Username: "seller", IsSeller: true, IsActive: true}
)

func newRouter(h *ShopHandler, p *policy.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if p != nil {
			middleware.SetPrincipal(c, p)
		}
	})
	router.GET("/shop/", h.AdminGroups)
	router.GET("/shop/public/", h.PublicList)
	router.GET("/shop/mine/", h.MyShops)
	router.GET("/shop/mine/:id/", h.MyShopDetail)
	router.POST("/shop/submit/", h.Submit)
	router.GET("/shop/:id/", h.AdminDetail)
	router.POST("/shop/:id/approve/", h.Approve)
	router.POST("/shop/:id/reject/", h.Reject)
	router.POST("/shop/:id/upload-document/", h.UploadDocument)
	router.POST("/shop/:id/upload-attachment/", h.UploadAttachment)
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// multipartRequest 构造上传请求，filename 为空时不附带文件
func multipartRequest(t *testing.T, path string, fields map[string]string, filename string) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestSubmitShop(t *testing.T) {
	mockService := new(MockShopService)
	router := newRouter(NewShopHandler(mockService), seller)

	mockService.On("Submit", mock.Anything, seller, "Green Tea House", "teas").Return(&model.Shop{
		ID:             5,
		OwnerID:        seller.UserID,
		Name:           "Green Tea House",
		Slug:           "green-tea-house-ab12cd34",
		Status:         model.ShopStatusPending,
		CommissionRate: decimal.NewFromInt(10),
	}, nil)
	mockService.On("Submit", mock.Anything, seller, "", "").Return(nil, errors.New(errors.ErrValidation, "name required"))

	w := serve(router, http.MethodPost, "/shop/submit/", `{"name": "Green Tea House", "description": "teas"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var shop map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shop))
	assert.Equal(t, "pending", shop["status"])
	assert.Equal(t, "10.00", shop["commission_rate"])
	assert.Equal(t, float64(seller.UserID), shop["owner"])
	assert.Nil(t, shop["approval_date"])

	w = serve(router, http.MethodPost, "/shop/submit/", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name required")
}

func TestListShops(t *testing.T) {
	mockService := new(MockShopService)

	mockService.On("PublicList", mock.Anything).Return([]*model.Shop{{ID: 1, Name: "A", Status: "approved"}}, nil)
	mockService.On("MyShops", mock.Anything, seller).Return([]*model.Shop{}, nil)
	mockService.On("AdminGroups", mock.Anything, admin).Return(map[string][]*model.Shop{
		"pending": {}, "approved": {{ID: 1, Name: "A"}}, "rejected": {}, "modification": {},
	}, nil)
	mockService.On("AdminGroups", mock.Anything, seller).Return(nil, errors.New(errors.ErrForbidden, "forbidden"))

	w := serve(newRouter(NewShopHandler(mockService), nil), http.MethodGet, "/shop/public/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var public map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &public))
	require.Len(t, public["shops"], 1)

	// 我的店铺直接返回数组
	w = serve(newRouter(NewShopHandler(mockService), seller), http.MethodGet, "/shop/mine/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = serve(newRouter(NewShopHandler(mockService), admin), http.MethodGet, "/shop/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var groups map[string][]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &groups))
	assert.Len(t, groups, 4)
	assert.Len(t, groups["approved"], 1)

	w = serve(newRouter(NewShopHandler(mockService), seller), http.MethodGet, "/shop/", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestShopDetail(t *testing.T) {
	mockService := new(MockShopService)
	router := newRouter(NewShopHandler(mockService), seller)

	mockService.On("MyShopDetail", mock.Anything, seller, 5).Return(&model.Shop{ID: 5, Name: "Mine"}, nil)
	mockService.On("MyShopDetail", mock.Anything, seller, 6).Return(nil, errors.New(errors.ErrShopNotFound, "Not found"))

	w := serve(router, http.MethodGet, "/shop/mine/5/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Mine"`)

	w = serve(router, http.MethodGet, "/shop/mine/6/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, http.MethodGet, "/shop/mine/x/", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModerateShop(t *testing.T) {
	mockService := new(MockShopService)
	router := newRouter(NewShopHandler(mockService), admin)

	mockService.On("Moderate", mock.Anything, admin, 5, lifecycle.Approve).Return(nil)
	mockService.On("Moderate", mock.Anything, admin, 5, lifecycle.Reject).Return(nil)

	w := serve(router, http.MethodPost, "/shop/5/approve/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())

	w = serve(router, http.MethodPost, "/shop/5/reject/", "")
	require.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestUploadDocument(t *testing.T) {
	mockService := new(MockShopService)
	router := newRouter(NewShopHandler(mockService), seller)

	// 兼容旧字段 type
	mockService.On("UploadDocument", mock.Anything, seller, 5, "license", "LIC-1",
		mock.MatchedBy(func(f *multipart.FileHeader) bool { return f != nil && f.Filename == "license.pdf" }),
	).Return(&model.ShopDocument{ID: 1, ShopID: 5, DocType: "license", Number: "LIC-1", FileURL: "/uploads/shops/5/documents/x.pdf"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/shop/5/upload-document/", map[string]string{"type": "license", "number": "LIC-1"}, "license.pdf"))
	require.Equal(t, http.StatusCreated, w.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "license", doc["doc_type"])
	assert.Equal(t, "/uploads/shops/5/documents/x.pdf", doc["file"])

	// 没有文件时交给服务层报错
	mockService.On("UploadDocument", mock.Anything, seller, 5, "license", "", (*multipart.FileHeader)(nil)).
		Return(nil, errors.New(errors.ErrValidation, "file and doc_type are required"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/shop/5/upload-document/", map[string]string{"doc_type": "license"}, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file and doc_type are required")
}

func TestUploadAttachment(t *testing.T) {
	mockService := new(MockShopService)
	router := newRouter(NewShopHandler(mockService), seller)

	mockService.On("UploadAttachment", mock.Anything, seller, 5, "menu",
		mock.MatchedBy(func(f *multipart.FileHeader) bool { return f != nil }),
	).Return(&model.ShopAttachment{ID: 2, ShopID: 5, Name: "menu", FileURL: "/uploads/a.png"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, "/shop/5/upload-attachment/", map[string]string{"name": "menu"}, "menu.png"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"menu"`)
}

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_Create(t *testing.T) {
	orderID := uuid.New()
	testResponse := &model.OrderResponse{
		Order: model.Order{ID: orderID, Subtotal: 240000, Total: 240000, PaymentMethod: model.PaymentMethodCOD},
		Items: []model.OrderItem{{OrderID: orderID, BookID: "B001", Quantity: 2, UnitPrice: 120000}},
		Books: []model.Book{{ID: "B001", Title: "Dune", Price: 120000}},
	}

	validBody := `{"customerName":"A","customerPhone":"0901","shippingAddress":"1 Le Loi","items":[{"bookId":"B001","quantity":2}]}`

	tests := []struct {
		name           string
		body           string
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{name: "Success", body: validBody, mockReturn: testResponse, expectedStatus: http.StatusCreated, expectService: true},
		{
			name:           "Promotion rejected",
			body:           validBody,
			mockError:      model.NewDomainError(model.ErrCodePromotionRejected, "Promotion code has expired"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodePromotionRejected,
			expectService:  true,
		},
		{name: "Promotion exhausted", body: validBody, mockError: model.ErrPromotionUnavailable, expectedStatus: http.StatusConflict, expectedCode: model.ErrCodePromotionUnavailable, expectService: true},
		{name: "Book not found", body: validBody, mockError: model.ErrBookNotFound, expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeBookNotFound, expectService: true},
		{name: "Invalid quantity", body: validBody, mockError: model.ErrInvalidQuantity, expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeInvalidQuantity, expectService: true},
		{
			name:           "Missing field",
			body:           validBody,
			mockError:      model.NewDomainError(model.ErrCodeMissingField, "customerPhone is required"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeMissingField,
			expectService:  true,
		},
		{name: "Internal error", body: validBody, mockError: errors.New("database connection failed"), expectedStatus: http.StatusInternalServerError, expectedCode: model.ErrCodeInternalError, expectService: true},
		{name: "Invalid JSON", body: "invalid json", expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.expectService {
				mockService.On("CreateOrder", mock.Anything, mock.AnythingOfType("*model.OrderRequest")).Return(tt.mockReturn, tt.mockError)
			}

			handler := NewOrderHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusCreated {
				var resp model.OrderResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, orderID, resp.ID)
				assert.Equal(t, int64(240000), resp.Total)
				assert.Len(t, resp.Items, 1)
			}

			if tt.expectedCode != "" {
				var body model.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedCode, body.Error)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "CreateOrder")
			}
		})
	}
}

func TestOrderHandler_Create_DecodesRequest(t *testing.T) {
	mockService := new(MockOrderService)
	mockService.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *model.OrderRequest) bool {
		return req.CustomerName == "A" &&
			req.PromotionCode != nil && *req.PromotionCode == "spring10" &&
			len(req.Items) == 1 && req.Items[0].BookID == "B001" && req.Items[0].Quantity == 2
	})).Return(&model.OrderResponse{}, nil)

	body := `{"customerName":"A","customerPhone":"0901","shippingAddress":"x","promotionCode":"spring10","items":[{"bookId":"B001","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	NewOrderHandler(mockService, zerolog.Nop()).Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_GetByID(t *testing.T) {
	orderID := uuid.New()
	testResponse := &model.OrderResponse{Order: model.Order{ID: orderID}}

	tests := []struct {
		name           string
		orderID        string
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{name: "Success", orderID: orderID.String(), mockReturn: testResponse, expectedStatus: http.StatusOK, expectService: true},
		{name: "Order not found", orderID: orderID.String(), mockError: model.ErrOrderNotFound, expectedStatus: http.StatusNotFound, expectedCode: model.ErrCodeOrderNotFound, expectService: true},
		{name: "Invalid UUID", orderID: "invalid-uuid", expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeInvalidParameter},
		{name: "Missing ID", orderID: "", expectedStatus: http.StatusBadRequest, expectedCode: model.ErrCodeMissingField},
		{name: "Service error", orderID: orderID.String(), mockError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedCode: model.ErrCodeInternalError, expectService: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.expectService {
				mockService.On("GetByID", mock.Anything, orderID).Return(tt.mockReturn, tt.mockError)
			}

			handler := NewOrderHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.orderID, nil)
			req.SetPathValue("id", tt.orderID)
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				var body model.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedCode, body.Error)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "GetByID")
			}
		})
	}
}

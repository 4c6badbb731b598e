package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cuentix/inventory_api/internal/models"
	"github.com/cuentix/inventory_api/internal/repository"
	"github.com/cuentix/inventory_api/internal/sse"
	"github.com/cuentix/inventory_api/internal/utils"
)

// OrderService records internal sales and produces the daily sales report.
type OrderService struct {
	orderRepo *repository.OrderRepository
	stockRepo *repository.StockRepository
	reports   *ReportService
	notifier  *sse.Notifier
}

// NewOrderService constructs an OrderService.
func NewOrderService(orderRepo *repository.OrderRepository, stockRepo *repository.StockRepository, reports *ReportService, notifier *sse.Notifier) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		stockRepo: stockRepo,
		reports:   reports,
		notifier:  notifier,
	}
}

// CreateOrderRequest is the payload to record an internal sale. When
// ListingID is set the source, unit and price default from the listing.
type CreateOrderRequest struct {
	ListingID  *int        `json:"listingId"`
	SourceID   int         `json:"sourceId"`
	SourceType models.Pool `json:"sourceType"`
	Unit       string      `json:"unit"`
	Buyer      string      `json:"buyer" binding:"required"`
	Price      int         `json:"price"`
	SaleDate   *time.Time  `json:"saleDate"`
}

// Create records an internal sale. A sale against a listing marks that
// listing sold; a listing already sold cannot be sold again.
func (s *OrderService) Create(principal string, sellerID int, req *CreateOrderRequest) (_ *models.InternalOrder, err error) {
	defer func() {
		if err != nil {
			s.notifier.Error(principal, "No se pudo registrar la venta")
		}
	}()
	order := &models.InternalOrder{
		ListingID:  req.ListingID,
		SourceID:   req.SourceID,
		SourceType: req.SourceType,
		Unit:       req.Unit,
		Buyer:      req.Buyer,
		Price:      req.Price,
		SellerID:   sellerID,
		SaleDate:   time.Now(),
	}
	if req.SaleDate != nil {
		order.SaleDate = *req.SaleDate
	}

	if req.ListingID != nil {
		l, err := s.stockRepo.GetByID(*req.ListingID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, utils.ErrListingNotFound
			}
			return nil, err
		}
		if l.IsSold {
			return nil, utils.ErrUnitNotSellable
		}
		order.SourceID = l.SourceID
		order.SourceType = l.SourceType
		order.Unit = l.Unit
		if order.Price == 0 {
			order.Price = l.Price
		}
	}

	if !order.SourceType.Valid() {
		return nil, utils.ErrInvalidPool
	}
	if order.Price <= 0 {
		return nil, utils.ErrInvalidPrice
	}

	ref, err := utils.GenerateOrderReference(order.SaleDate)
	if err != nil {
		return nil, err
	}
	order.ReferenceID = ref

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	if req.ListingID != nil {
		if err := s.stockRepo.MarkSold(*req.ListingID); err != nil {
			log.Error().Err(err).Int("listing_id", *req.ListingID).Msg("Failed to mark listing sold")
		}
	}

	s.notifier.Success(principal, fmt.Sprintf("Venta %s registrada", order.ReferenceID))
	log.Info().Str("reference_id", order.ReferenceID).Int("price", order.Price).Msg("Internal order recorded")
	return order, nil
}

// Search returns orders in a sale-date range, newest first.
func (s *OrderService) Search(from, to time.Time) ([]models.InternalOrder, error) {
	return s.orderRepo.SearchByDate(from, to)
}

// GetByReference returns the order with the given reference id.
func (s *OrderService) GetByReference(referenceID string) (*models.InternalOrder, error) {
	order, err := s.orderRepo.SearchByReference(referenceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// DailyReportCSV renders all sales of one calendar day as CSV.
func (s *OrderService) DailyReportCSV(day time.Time) ([]byte, int, error) {
	orders, err := s.orderRepo.GetDaily(day)
	if err != nil {
		return nil, 0, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"reference_id", "sale_date", "source_type", "source_id", "unit", "buyer", "price", "seller_id"})
	for _, o := range orders {
		_ = w.Write([]string{
			o.ReferenceID,
			o.SaleDate.Format("2006-01-02 15:04:05"),
			string(o.SourceType),
			strconv.Itoa(o.SourceID),
			o.Unit,
			o.Buyer,
			strconv.Itoa(o.Price),
			strconv.Itoa(o.SellerID),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(orders), nil
}

// UploadDailyReport renders the day's report and pushes it to report
// storage, returning the object URL.
func (s *OrderService) UploadDailyReport(ctx context.Context, day time.Time) (string, int, error) {
	data, count, err := s.DailyReportCSV(day)
	if err != nil {
		return "", 0, err
	}
	url, err := s.reports.UploadDailyReport(ctx, day, data)
	if err != nil {
		return "", 0, err
	}
	return url, count, nil
}

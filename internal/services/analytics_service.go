package services

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"apparel_store/internal/redis"
	"apparel_store/internal/repository"
	"apparel_store/pkg/imagekit"

	"github.com/xuri/excelize/v2"
)

// UsageAPI reports the image CDN account's quota consumption.
type UsageAPI interface {
	Usage(startDate, endDate string) (*imagekit.UsageResponse, error)
}

type SalesSummary struct {
	From           time.Time        `json:"from"`
	To             time.Time        `json:"to"`
	Revenue        float64          `json:"revenue"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	TotalOrders    int64            `json:"total_orders"`
}

type UsageReport struct {
	Month           string                  `json:"month"`
	ImageKitUploads int64                   `json:"imagekit_uploads"`
	CarrierAPICalls int64                   `json:"carrier_api_calls"`
	ImageKit        *imagekit.UsageResponse `json:"imagekit,omitempty"`
	ImageKitError   string                  `json:"imagekit_error,omitempty"`
}

type AnalyticsService interface {
	Summary(from, to time.Time) (*SalesSummary, error)
	TopProducts(from, to time.Time, limit int) ([]repository.ProductSales, error)
	Usage() (*UsageReport, error)
	ExportOrders(filter repository.OrderFilter) ([]byte, error)
}

type analyticsService struct {
	orderRepo repository.OrderRepository
	usage     UsageAPI
	counters  *redis.Client
}

func NewAnalyticsService(orderRepo repository.OrderRepository, usage UsageAPI, counters *redis.Client) AnalyticsService {
	return &analyticsService{orderRepo: orderRepo, usage: usage, counters: counters}
}

func (s *analyticsService) Summary(from, to time.Time) (*SalesSummary, error) {
	revenue, err := s.orderRepo.Revenue(from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}

	counts, err := s.orderRepo.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	summary := &SalesSummary{
		From:           from,
		To:             to,
		Revenue:        revenue,
		OrdersByStatus: counts,
	}
	for _, n := range counts {
		summary.TotalOrders += n
	}
	return summary, nil
}

func (s *analyticsService) TopProducts(from, to time.Time, limit int) ([]repository.ProductSales, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.orderRepo.TopProducts(from, to, limit)
}

// Usage assembles the quota dashboard: our own call counters for the current
// month plus the CDN account numbers. A CDN API failure degrades the report
// rather than failing it.
func (s *analyticsService) Usage() (*UsageReport, error) {
	now := time.Now()
	report := &UsageReport{Month: now.Format("2006-01")}

	uploads, err := s.counters.GetUsage("imagekit", now)
	if err != nil {
		log.Printf("failed to read imagekit usage counter: %v", err)
	}
	report.ImageKitUploads = uploads

	carrierCalls, err := s.counters.GetUsage("shiprocket", now)
	if err != nil {
		log.Printf("failed to read shiprocket usage counter: %v", err)
	}
	report.CarrierAPICalls = carrierCalls

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	cdnUsage, err := s.usage.Usage(monthStart.Format("2006-01-02"), now.Format("2006-01-02"))
	if err != nil {
		report.ImageKitError = err.Error()
	} else {
		report.ImageKit = cdnUsage
	}
	return report, nil
}

var exportHeader = []string{
	"Order Number", "Date", "Customer", "Phone", "City", "Pincode",
	"Payment Method", "Payment Status", "Order Status",
	"Subtotal", "Shipping", "COD Fee", "Total",
	"Courier", "AWB",
}

// ExportOrders renders the filtered order list as an XLSX workbook for the
// back-office team.
func (s *analyticsService) ExportOrders(filter repository.OrderFilter) ([]byte, error) {
	// Export everything the filter matches, page by page.
	filter.Page = 1
	filter.PageSize = 50

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	row := 2
	for {
		orders, _, err := s.orderRepo.List(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders for export: %w", err)
		}
		if len(orders) == 0 {
			break
		}

		for _, order := range orders {
			values := []interface{}{
				order.OrderNumber,
				order.CreatedAt.Format("2006-01-02 15:04"),
				order.ShippingName,
				order.ShippingPhone,
				order.City,
				order.Pincode,
				order.PaymentMethod,
				order.PaymentStatus,
				order.OrderStatus,
				order.Subtotal,
				order.ShippingCharge,
				order.CODCharge,
				order.Total,
				order.CourierName,
				order.AWBCode,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}

		if len(orders) < filter.PageSize {
			break
		}
		filter.Page++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

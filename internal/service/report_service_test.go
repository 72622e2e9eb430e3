package service

import (
	"errors"
	"testing"

	"github.com/harvestmart/harvestmart-api/internal/constants"
	"github.com/harvestmart/harvestmart-api/internal/models"
	"github.com/harvestmart/harvestmart-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReportServiceTest(t *testing.T) (*ReportService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}, &models.Report{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewReportService(repository.NewReportRepository(db)), db
}

func TestReportCreateAndStatusFlow(t *testing.T) {
	svc, db := setupReportServiceTest(t)
	buyer := seedServiceUser(t, db, 201, "report-buyer-201", constants.RoleBuyer)

	if _, err := svc.Create(buyer.ID, ReportInput{IssueType: "weather", Subject: "rain"}); !errors.Is(err, ErrInvalidIssueType) {
		t.Fatalf("unknown issue type want ErrInvalidIssueType got %v", err)
	}
	if _, err := svc.Create(buyer.ID, ReportInput{IssueType: constants.ReportIssueOrder, Subject: "  "}); !errors.Is(err, ErrReportSubjectRequired) {
		t.Fatalf("blank subject want ErrReportSubjectRequired got %v", err)
	}

	report, err := svc.Create(buyer.ID, ReportInput{
		OrderRef:    "HM20240101120000000001",
		IssueType:   "Delivery_Issue",
		Subject:     "box arrived damaged",
		Description: "two jars were cracked",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if report.Status != constants.ReportStatusOpen {
		t.Fatalf("new report must be open, got %s", report.Status)
	}
	if report.IssueType != constants.ReportIssueDelivery {
		t.Fatalf("issue type must be normalized, got %s", report.IssueType)
	}

	if _, err := svc.UpdateStatus(report.ID, "archived"); !errors.Is(err, ErrInvalidReportStatus) {
		t.Fatalf("unknown status want ErrInvalidReportStatus got %v", err)
	}
	updated, err := svc.UpdateStatus(report.ID, constants.ReportStatusResolved)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != constants.ReportStatusResolved {
		t.Fatalf("status want resolved got %s", updated.Status)
	}
	if _, err := svc.UpdateStatus(99999, constants.ReportStatusClosed); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("missing report want ErrReportNotFound got %v", err)
	}

	mine, err := svc.ListByUser(buyer.ID)
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("want 1 report got %d", len(mine))
	}
}

func TestReportSellerViewFollowsOrderRef(t *testing.T) {
	svc, db := setupReportServiceTest(t)
	buyer := seedServiceUser(t, db, 202, "report-buyer-202", constants.RoleBuyer)
	seller := seedServiceUser(t, db, 203, "report-seller-203", constants.RoleSeller)
	other := seedServiceUser(t, db, 204, "report-seller-204", constants.RoleSeller)
	squash := seedServiceProduct(t, db, seller.ID, "report delicata squash", "3.00", 10)

	order := &models.Order{OrderNo: "HM-report-202", UserID: buyer.ID, Status: constants.OrderStatusPending}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	item := &models.OrderItem{OrderID: order.ID, ProductID: squash.ID, ProductName: squash.Name, Quantity: 1}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed order item failed: %v", err)
	}

	if _, err := svc.Create(buyer.ID, ReportInput{
		OrderRef:  order.OrderNo,
		IssueType: constants.ReportIssueOrder,
		Subject:   "wrong squash variety",
	}); err != nil {
		t.Fatalf("create report failed: %v", err)
	}

	sellerReports, err := svc.ListBySeller(seller.ID)
	if err != nil {
		t.Fatalf("seller list failed: %v", err)
	}
	if len(sellerReports) != 1 || sellerReports[0].OrderRef != order.OrderNo {
		t.Fatalf("seller must see the report, got %+v", sellerReports)
	}

	otherReports, err := svc.ListBySeller(other.ID)
	if err != nil {
		t.Fatalf("other seller list failed: %v", err)
	}
	for _, r := range otherReports {
		if r.OrderRef == order.OrderNo {
			t.Fatalf("unrelated seller must not see the report")
		}
	}
}

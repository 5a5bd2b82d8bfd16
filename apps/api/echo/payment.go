package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/academia/core/payment"
)

type PaymentService interface {
	ComputeAlerts(ctx context.Context) ([]payment.Alert, error)
	RecordPayment(ctx context.Context, np payment.NewPayment) (payment.Payment, error)
	StudentPayments(ctx context.Context, studentID string) ([]payment.PaymentDetail, error)
}

// paymentRequest is payment.NewPayment with a calendar date.
type paymentRequest struct {
	StudentID    string          `json:"student_id"`
	OfferingID   string          `json:"offering_id"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentDate  Date            `json:"payment_date"`
	MonthPaidFor string          `json:"month_paid_for"`
}

type paymentApi struct {
	svc PaymentService
}

func registerPaymentAPI(g *echo.Group, svc PaymentService) {
	api := paymentApi{svc: svc}

	g.GET("/payments/alerts", api.alerts)
	g.POST("/payments", api.record)
	g.GET("/students/:id/payments", api.studentPayments)
}

func (api *paymentApi) alerts(ctx echo.Context) error {
	alerts, err := api.svc.ComputeAlerts(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing payment alerts")
	}
	return ctx.JSON(http.StatusOK, alerts)
}

func (api *paymentApi) record(ctx echo.Context) error {
	var data paymentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	pmt, err := api.svc.RecordPayment(ctx.Request().Context(), payment.NewPayment{
		StudentID:    data.StudentID,
		OfferingID:   data.OfferingID,
		Amount:       data.Amount,
		PaymentDate:  data.PaymentDate.Time,
		MonthPaidFor: data.MonthPaidFor,
	})
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusCreated, pmt)
}

func (api *paymentApi) studentPayments(ctx echo.Context) error {
	payments, err := api.svc.StudentPayments(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying student payments")
	}
	return ctx.JSON(http.StatusOK, payments)
}

package handlers

import (
	"context"

	"service-carrier-settlement/internal/domain"
	"service-carrier-settlement/internal/service/payment"
	"service-carrier-settlement/internal/service/reporting"
	"service-carrier-settlement/internal/service/settlement"
)

type settlementUsecase interface {
	SettleBatch(ctx context.Context, req settlement.BatchRequest) (settlement.Result, error)
	ReconcileManual(ctx context.Context, req settlement.ManualRequest) (settlement.Result, error)
}

// NewSettlementUsecase wires a settlement Service into a settlementUsecase.
func NewSettlementUsecase(svc *settlement.Service) settlementUsecase {
	return svc
}

type paymentUsecase interface {
	Register(ctx context.Context, req payment.Request) (payment.Result, error)
}

// NewPaymentUsecase wires a payment Registrar into a paymentUsecase.
func NewPaymentUsecase(reg *payment.Registrar) paymentUsecase {
	return reg
}

type reportingUsecase interface {
	Balance(ctx context.Context, storeID, carrierID int64) (domain.CarrierBalance, error)
	Pending(ctx context.Context, storeID, carrierID int64) (reporting.PendingResult, error)
}

// NewReportingUsecase wires a reporting Service into a reportingUsecase.
func NewReportingUsecase(svc *reporting.Service) reportingUsecase {
	return svc
}

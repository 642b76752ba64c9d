package handlers

import (
	"service-carrier-settlement/internal/domain"
	"service-carrier-settlement/internal/service/reporting"
	"service-carrier-settlement/internal/service/settlement"
)

func settlementResultToResponse(res settlement.Result) settlementResponse {
	return settlementResponse{
		SettlementID:  res.SettlementID,
		Code:          res.Code,
		Dispatched:    res.Dispatched,
		Delivered:     res.Delivered,
		NotDelivered:  res.NotDelivered,
		CODExpected:   res.CODExpected,
		CODCollected:  res.CODCollected,
		CarrierFees:   res.CarrierFees,
		FailedFees:    res.FailedFees,
		NetReceivable: res.NetReceivable,
	}
}

func balanceToResponse(b domain.CarrierBalance) balanceResponse {
	byKind := make([]kindTotalResponse, 0, len(b.ByKind))
	for _, kt := range b.ByKind {
		byKind = append(byKind, kindTotalResponse{Kind: string(kt.Kind), Total: kt.Total})
	}
	return balanceResponse{
		StoreID:   b.StoreID,
		CarrierID: b.CarrierID,
		ByKind:    byKind,
		Net:       b.Net,
	}
}

func pendingToResponse(p reporting.PendingResult) pendingResponse {
	settlements := make([]pendingSettlementResponse, 0, len(p.Settlements))
	for _, s := range p.Settlements {
		settlements = append(settlements, pendingSettlementResponse{
			ID:            s.ID,
			Code:          s.Code,
			PeriodDate:    s.PeriodDate.Format("2006-01-02"),
			NetReceivable: s.NetReceivable,
			Status:        string(s.Status),
		})
	}
	movements := make([]pendingMovementResponse, 0, len(p.Movements))
	for _, m := range p.Movements {
		movements = append(movements, pendingMovementResponse{
			ID:          m.ID,
			OrderID:     m.OrderID,
			Kind:        string(m.Kind),
			Amount:      m.Amount,
			Description: m.Description,
			OccurredOn:  m.OccurredOn,
		})
	}
	return pendingResponse{Settlements: settlements, Movements: movements}
}

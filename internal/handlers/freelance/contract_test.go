package freelance

import (
	"testing"

	"louma_back_end/internal/models"
)

func TestValidateTransition(t *testing.T) {
	allowed := []struct {
		from, to models.ContractStatus
	}{
		{models.ContractStatusActive, models.ContractStatusDelivered},
		{models.ContractStatusActive, models.ContractStatusCancelled},
		{models.ContractStatusActive, models.ContractStatusDisputed},
		{models.ContractStatusDelivered, models.ContractStatusCompleted},
		{models.ContractStatusDelivered, models.ContractStatusDisputed},
	}
	for _, tc := range allowed {
		if !ValidateTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s devrait être autorisé", tc.from, tc.to)
		}
	}

	forbidden := []struct {
		from, to models.ContractStatus
	}{
		{models.ContractStatusDelivered, models.ContractStatusActive},
		{models.ContractStatusCompleted, models.ContractStatusDisputed},
		{models.ContractStatusCancelled, models.ContractStatusActive},
		{models.ContractStatusDisputed, models.ContractStatusCompleted},
		{models.ContractStatusActive, models.ContractStatusCompleted},
	}
	for _, tc := range forbidden {
		if ValidateTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s devrait être interdit", tc.from, tc.to)
		}
	}
}

func TestRound2(t *testing.T) {
	// 250 * 12% = 30, net = 220
	commission := round2(250 * 12 / 100.0)
	if commission != 30 {
		t.Errorf("commission attendue 30, obtenu %v", commission)
	}
	if net := round2(250 - commission); net != 220 {
		t.Errorf("net attendu 220, obtenu %v", net)
	}
}

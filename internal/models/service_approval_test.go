package models

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApprovalStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ApprovalStatus
	}{
		{"APPROVED", ApprovalStatusApproved},
		{" approved ", ApprovalStatusApproved},
		{"PENDING", ApprovalStatusPending},
		{"REJECTED", ApprovalStatusRejected},
		{"rechazado", ApprovalStatusRejected},
		{"COMPLETED", ApprovalStatusCompleted},
		{"COMPLETADO", ApprovalStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseApprovalStatus(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseApprovalStatus("CANCELLED")
	assert.Error(t, err)
}

func TestApprovalStatusIsTerminal(t *testing.T) {
	assert.False(t, ApprovalStatusPending.IsTerminal())
	assert.False(t, ApprovalStatusApproved.IsTerminal())
	assert.True(t, ApprovalStatusRejected.IsTerminal())
	assert.True(t, ApprovalStatusCompleted.IsTerminal())
}

func TestStatusMapping(t *testing.T) {
	m := StatusMapping{
		Pending:   "PENDIENTE",
		Approved:  "APROBADO",
		Rejected:  "RECHAZADO",
		Completed: "COMPLETADO",
	}

	assert.Equal(t, "APROBADO", m.Format(ApprovalStatusApproved))
	assert.Equal(t, "COMPLETADO", m.Format(ApprovalStatusCompleted))

	got, err := m.Parse("aprobado")
	require.NoError(t, err)
	assert.Equal(t, ApprovalStatusApproved, got)

	// canonical names are still understood under a custom mapping
	got, err = m.Parse("REJECTED")
	require.NoError(t, err)
	assert.Equal(t, ApprovalStatusRejected, got)

	_, err = m.Parse("UNKNOWN")
	assert.Error(t, err)

	def := DefaultStatusMapping()
	assert.Equal(t, "APPROVED", def.Format(ApprovalStatusApproved))
	got, err = def.Parse("COMPLETADO")
	require.NoError(t, err)
	assert.Equal(t, ApprovalStatusCompleted, got)
}

func TestToStatusResponse(t *testing.T) {
	reason := RejectionReasonBelowMinimum
	prescriptionID := int64(77)
	approval := &ServiceApproval{
		ID:            5,
		ApprovalCode:  "AP0000ABCD",
		UserID:        1,
		HospitalID:    2,
		ServiceID:     "SVC-1",
		ServiceName:   "X-Ray",
		ServiceCost:   decimal.RequireFromString("100.00"),
		CoveredAmount: decimal.RequireFromString("80.00"),
		PatientAmount: decimal.RequireFromString("20.00"),
		Status:        ApprovalStatusApproved,
		ApprovalDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	resp := approval.ToStatusResponse()
	assert.False(t, approval.HasPrescription())
	assert.Nil(t, resp.PrescriptionID)
	assert.False(t, resp.PrescriptionTotal.Valid)
	assert.Nil(t, resp.RejectionReason)

	approval.PrescriptionID = &prescriptionID
	approval.PrescriptionTotal = decimal.NewNullDecimal(decimal.RequireFromString("120.00"))
	approval.Status = ApprovalStatusRejected
	approval.RejectionReason = &reason

	resp = approval.ToStatusResponse()
	assert.True(t, approval.HasPrescription())
	require.NotNil(t, resp.PrescriptionID)
	assert.Equal(t, int64(77), *resp.PrescriptionID)
	assert.Equal(t, "120", resp.PrescriptionTotal.Decimal.String())
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, RejectionReasonBelowMinimum, *resp.RejectionReason)
	assert.Equal(t, "AP0000ABCD", resp.ApprovalCode)
}

func TestStatusJSONOmitsMissingPrescription(t *testing.T) {
	approval := &ServiceApproval{ApprovalCode: "AP0000ABCD", Status: ApprovalStatusApproved}

	body, err := json.Marshal(approval.ToStatusResponse())
	require.NoError(t, err)
	assert.NotContains(t, string(body), "prescriptionTotal")
	assert.NotContains(t, string(body), "prescriptionId")

	body, err = json.Marshal(approval)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "prescriptionTotal")

	prescriptionID := int64(3)
	approval.PrescriptionID = &prescriptionID
	approval.PrescriptionTotal = decimal.NewNullDecimal(decimal.RequireFromString("300.00"))

	body, err = json.Marshal(approval.ToStatusResponse())
	require.NoError(t, err)
	assert.Contains(t, string(body), `"prescriptionTotal":"300"`)
	assert.Contains(t, string(body), `"prescriptionId":3`)
}

func TestHTTPStatusForErrorCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForErrorCode(ErrCodeIneligible))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForErrorCode(ErrCodeInvalidStatus))
	assert.Equal(t, http.StatusNotFound, HTTPStatusForErrorCode(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatusForErrorCode(ErrCodeConflict))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForErrorCode("SOMETHING_ELSE"))
}

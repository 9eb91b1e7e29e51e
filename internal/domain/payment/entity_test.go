package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanAdvanceTo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		from     Status
		to       Status
		expected bool
	}{
		{"requires_payment_method advances to processing", StatusRequiresPaymentMethod, StatusProcessing, true},
		{"requires_payment_method advances to succeeded", StatusRequiresPaymentMethod, StatusSucceeded, true},
		{"requires_confirmation advances to failed", StatusRequiresConfirmation, StatusFailed, true},
		{"requires_confirmation cannot regress", StatusRequiresConfirmation, StatusRequiresPaymentMethod, false},
		{"processing advances to succeeded", StatusProcessing, StatusSucceeded, true},
		{"succeeded is terminal", StatusSucceeded, StatusProcessing, false},
		{"failed is terminal", StatusFailed, StatusSucceeded, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.from.CanAdvanceTo(tc.to))
		})
	}
}

func TestNewStatus(t *testing.T) {
	t.Parallel()

	t.Run("should accept known statuses", func(t *testing.T) {
		for _, s := range AvailableStatuses {
			status, err := NewStatus(string(s))
			require.NoError(t, err)
			assert.Equal(t, s, status)
		}
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := NewStatus("canceled")
		assert.Error(t, err)
	})
}

func TestNewReason(t *testing.T) {
	t.Parallel()

	t.Run("should default empty reason to requested_by_customer", func(t *testing.T) {
		reason, err := NewReason("")
		require.NoError(t, err)
		assert.Equal(t, ReasonRequestedByCustomer, reason)
	})

	t.Run("should accept known reasons", func(t *testing.T) {
		for _, r := range AvailableReasons {
			reason, err := NewReason(string(r))
			require.NoError(t, err)
			assert.Equal(t, r, reason)
		}
	})

	t.Run("should reject unknown reason", func(t *testing.T) {
		_, err := NewReason("buyer_remorse")
		assert.Error(t, err)
	})
}

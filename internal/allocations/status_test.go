package allocations

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name      string
		allocated int64
		amount    int64
		want      enums.ChargeStatus
	}{
		{name: "nothing allocated", allocated: 0, amount: 10000, want: enums.ChargeStatusPending},
		{name: "partially allocated", allocated: 1, amount: 10000, want: enums.ChargeStatusPartial},
		{name: "one cent short", allocated: 9999, amount: 10000, want: enums.ChargeStatusPartial},
		{name: "exactly covered", allocated: 10000, amount: 10000, want: enums.ChargeStatusPaid},
		{name: "over covered after amount reduction", allocated: 12000, amount: 10000, want: enums.ChargeStatusPaid},
		{name: "negative treated as pending", allocated: -50, amount: 10000, want: enums.ChargeStatusPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.allocated, tc.amount))
		})
	}
}

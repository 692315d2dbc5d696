package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pathassist/lab-billing/pkg/money"
)

func TestDigits(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"826", "826.00"},
		{"1534", "1,534.00"},
		{"471.996", "472.00"},
		{"-12.5", "-12.50"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, money.Digits(decimal.RequireFromString(tc.in)))
		})
	}
}

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "INR 1,534.00", money.FormatCode(decimal.NewFromInt(1534)))
}

func TestFormat_UsaSimboloRupia(t *testing.T) {
	got := money.Format(decimal.NewFromInt(826))
	assert.Contains(t, got, "₹")
	assert.Contains(t, got, "826.00")
}

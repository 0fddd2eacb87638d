package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bloomadmin/internal/money"
)

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"1234.5":    "PHP 1,234.50",
		"0":         "PHP 0.00",
		"499":       "PHP 499.00",
		"1234567.8": "PHP 1,234,567.80",
		"10.005":    "PHP 10.01",
		"10.004":    "PHP 10.00",
		"-1234.565": "PHP -1,234.57",
		"-0.001":    "PHP 0.00",

		"12345678901234567.89":    "PHP 12,345,678,901,234,567.89",
		"123456789012345678901.5": "PHP 123,456,789,012,345,678,901.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, money.Format(decimal.RequireFromString(in)), in)
	}
}

func TestSum(t *testing.T) {
	got := money.Sum(decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2"))
	assert.True(t, got.Equal(decimal.RequireFromString("0.3")))
	assert.True(t, money.Sum().IsZero())
}

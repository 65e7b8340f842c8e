package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scos_test")
	for _, key := range []string{
		"PORT", "DISCOUNT_TIERS", "DEVICE_NAME", "DEVICE_PRICE",
		"DEVICE_WEIGHT_KG", "SHIPPING_RATE_PER_KG_PER_KM", "MAX_SHIPPING_PCT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "SCOS Station P1 Pro", cfg.DeviceName)
	require.Equal(t, 150.0, cfg.DevicePrice)
	require.Equal(t, 0.365, cfg.DeviceWeightKg)
	require.Equal(t, 0.01, cfg.ShippingRatePerKgPerKm)
	require.Equal(t, 0.15, cfg.MaxShippingFraction)
	require.Equal(t, ":8080", cfg.HTTPAddr())

	require.Equal(t, []DiscountTier{
		{MinQuantity: 250, Percentage: 0.20},
		{MinQuantity: 100, Percentage: 0.15},
		{MinQuantity: 50, Percentage: 0.10},
		{MinQuantity: 25, Percentage: 0.05},
	}, cfg.DiscountTiers)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestParseTiersSortsDescending(t *testing.T) {
	tiers, err := parseTiers("25:0.05, 250:0.20,50:0.10,100:0.15")
	require.NoError(t, err)
	require.Equal(t, 250, tiers[0].MinQuantity)
	require.Equal(t, 25, tiers[3].MinQuantity)
}

func TestParseTiersRejectsMalformed(t *testing.T) {
	for _, input := range []string{"abc", "10", "10:2.0", "-5:0.1"} {
		_, err := parseTiers(input)
		require.Error(t, err, input)
	}
}

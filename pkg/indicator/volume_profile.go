package indicator

import "github.com/raykavin/chartview/pkg/core"

// VolumeBucket aggregates traded volume over one price band.
// Buy volume is attributed to bullish candles (close >= open).
type VolumeBucket struct {
	PriceLow   float64 `json:"price_low"`
	PriceHigh  float64 `json:"price_high"`
	Volume     float64 `json:"volume"`
	BuyVolume  float64 `json:"buy_volume"`
	SellVolume float64 `json:"sell_volume"`
}

// VolumeProfile partitions the observed close-price range into equal
// width buckets and accumulates the volume traded in each. Only
// non-empty buckets are returned.
func VolumeProfile(candles []core.Candle, levels int) []VolumeBucket {
	if levels <= 0 || len(candles) == 0 {
		return []VolumeBucket{}
	}

	low, high := candles[0].Close, candles[0].Close
	for _, c := range candles[1:] {
		if c.Close < low {
			low = c.Close
		}
		if c.Close > high {
			high = c.Close
		}
	}

	width := (high - low) / float64(levels)
	buckets := make([]VolumeBucket, levels)
	for i := range buckets {
		buckets[i].PriceLow = low + float64(i)*width
		buckets[i].PriceHigh = buckets[i].PriceLow + width
	}

	for _, c := range candles {
		idx := levels - 1
		if width > 0 {
			idx = int((c.Close - low) / width)
			if idx >= levels {
				idx = levels - 1
			}
		}

		buckets[idx].Volume += c.Volume
		if c.IsBullish() {
			buckets[idx].BuyVolume += c.Volume
		} else {
			buckets[idx].SellVolume += c.Volume
		}
	}

	out := make([]VolumeBucket, 0, levels)
	for _, b := range buckets {
		if b.Volume > 0 {
			out = append(out, b)
		}
	}

	return out
}

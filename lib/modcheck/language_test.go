package modcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinguaDetector_Detect(t *testing.T) {
	d := NewLanguageDetector()

	t.Run("clear english", func(t *testing.T) {
		det := d.Detect("The delivery was quick and the product arrived in perfect condition, thank you very much.")
		assert.True(t, det.Known)
		assert.Equal(t, "en", det.Code)
	})

	t.Run("clear vietnamese", func(t *testing.T) {
		det := d.Detect("Sản phẩm rất tốt, giao hàng nhanh, tôi rất hài lòng với chất lượng.")
		assert.True(t, det.Known)
		assert.Equal(t, "vi", det.Code)
	})

	t.Run("no letters is undetermined", func(t *testing.T) {
		det := d.Detect("12345 !!! ???")
		assert.False(t, det.Known)
		assert.Empty(t, det.Code)
	})

	t.Run("empty input is undetermined", func(t *testing.T) {
		det := d.Detect("")
		assert.False(t, det.Known)
	})
}

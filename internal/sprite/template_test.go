package sprite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		frame   string
		angle   string
		want    string
		wantErr bool
	}{
		{name: "add-on default", raw: "sprites/sprite%s%d.png", frame: "A", angle: "3", want: "sprites/spriteA3.png"},
		{name: "two strings", raw: "img_%s_%s.png", frame: "B", angle: "NE", want: "img_B_NE.png"},
		{name: "padded integer", raw: "%s-%03d.png", frame: "walk", angle: "7", want: "walk-007.png"},
		{name: "left justified", raw: "%-3s|%v", frame: "A", angle: "1", want: "A  |1"},
		{name: "literal percent", raw: "100%%/%s_%s.png", frame: "A", angle: "1", want: "100%/A_1.png"},
		{name: "string precision", raw: "%.3s_%s.png", frame: "walking", angle: "1", want: "wal_1.png"},
		{name: "width and precision", raw: "%5.2s|%.3d", frame: "walk", angle: "7", want: "   wa|007"},
		{name: "one slot", raw: "sprite%s.png", wantErr: true},
		{name: "no slots", raw: "sprite.png", wantErr: true},
		{name: "three slots", raw: "%s%s%s", wantErr: true},
		{name: "unsupported verb", raw: "%s%f", wantErr: true},
		{name: "dangling percent", raw: "%s%s%", wantErr: true},
		{name: "dangling precision", raw: "%s%.", wantErr: true},
		{name: "sharp flag on v quotes names", raw: "%#v_%s.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTemplate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, tmpl.String())

			got, err := tmpl.Format(tt.frame, tt.angle)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplate_FormatIntegerSlotRejectsText(t *testing.T) {
	tmpl, err := ParseTemplate("%d_%s")
	require.NoError(t, err)

	_, err = tmpl.Format("A", "1")
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	got, err := tmpl.Format("12", "x")
	require.NoError(t, err)
	assert.Equal(t, "12_x", got)
}

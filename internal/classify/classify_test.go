package classify

import "testing"

func TestIsScreenshot(t *testing.T) {
	t.Parallel()

	cls := New(nil)

	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{name: "macOS screen shot with spaces", filename: "Screen Shot 2024-06-01 at 10.15.33.png", want: true},
		{name: "windows screenshot", filename: "Screenshot (42).png", want: true},
		{name: "snip tool", filename: "quick snip.png", want: true},
		{name: "screenclip", filename: "ScreenClip_2024.png", want: true},
		{name: "capture", filename: "Capture region 3.PNG", want: true},
		{name: "underscore variant", filename: "screen_shot_001.png", want: true},
		{name: "uppercase extension", filename: "SCREENSHOT.PNG", want: true},
		{name: "whitespace in extension", filename: "screenshot . png", want: true},

		{name: "jpeg screenshot", filename: "screenshot.jpg", want: false},
		{name: "no extension", filename: "screenshot", want: false},
		{name: "plain photo", filename: "holiday.png", want: false},
		{name: "indicator after extension", filename: "notes.png.screenshot", want: false},
		{name: "empty string", filename: "", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := cls.IsScreenshot(tc.filename); got != tc.want {
				t.Errorf("IsScreenshot(%q) = %v, want %v", tc.filename, got, tc.want)
			}
		})
	}
}

func TestIsScreenshotCustomIndicators(t *testing.T) {
	t.Parallel()

	cls := New([]string{"bildschirmfoto"})

	if !cls.IsScreenshot("Bildschirmfoto 2024-06-01.png") {
		t.Error("expected custom indicator to match")
	}
	if cls.IsScreenshot("Screenshot 2024-06-01.png") {
		t.Error("custom indicator set should replace the defaults")
	}
}

func TestIsScreenshotZeroValue(t *testing.T) {
	t.Parallel()

	var cls Classifier
	if !cls.IsScreenshot("screenshot.png") {
		t.Error("zero-value Classifier should use the default indicators")
	}
}

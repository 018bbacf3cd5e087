package main

import (
	"bytes"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"badc0de.net/pkg/go-agi/sink"
	"badc0de.net/pkg/go-agi/ttesting"
)

func TestRunContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()

	broken := ttesting.NewViewBuilder()
	broken.AddLoop(ttesting.Cel{Width: 1, Height: 2, Data: ttesting.Rows([]byte{0x21})})
	good := ttesting.NewViewBuilder()
	good.AddLoop(ttesting.Cel{Width: 1, Height: 1, Transparency: 5, Data: ttesting.Rows([]byte{0x21})})

	brokenPath := filepath.Join(dir, "VIEW.001")
	goodPath := filepath.Join(dir, "VIEW.002")
	missingPath := filepath.Join(dir, "VIEW.003")
	os.WriteFile(brokenPath, broken.Bytes(), 0644)
	os.WriteFile(goodPath, good.Bytes(), 0644)

	var status bytes.Buffer
	c := &converter{opts: &sink.Options{}, status: &status, out: &status}
	failed := c.run([]string{brokenPath, missingPath, goodPath})

	ttesting.AssertEqualInt(t, "failed", failed, 2)
	out := status.String()
	if !strings.Contains(out, "corrupt resource") || !strings.Contains(out, "source unavailable") {
		t.Errorf("status does not name both failures:\n%s", out)
	}
	if !strings.Contains(out, "saved "+goodPath+".png") {
		t.Errorf("status does not report the saved image:\n%s", out)
	}

	f, err := os.Open(goodPath + ".png")
	if err != nil {
		t.Fatalf("good view not converted: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("png.DecodeConfig: %v", err)
	}
	ttesting.AssertEqualInt(t, "width", cfg.Width, 2)
	ttesting.AssertEqualInt(t, "height", cfg.Height, 1)

	if _, err := os.Stat(brokenPath + ".png"); !os.IsNotExist(err) {
		t.Errorf("broken view left an image behind: %v", err)
	}
}

func writeWalker(t *testing.T) string {
	t.Helper()
	b := ttesting.NewViewBuilder()
	b.AddLoop(
		ttesting.Cel{Width: 1, Height: 1, Data: ttesting.Rows([]byte{0x21})},
		ttesting.Cel{Width: 2, Height: 1, Data: ttesting.Rows([]byte{0x32})},
	)
	b.AddLoop()
	path := filepath.Join(t.TempDir(), "VIEW.010")
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertAnimate(t *testing.T) {
	*animate = true
	defer func() { *animate = false }()
	path := writeWalker(t)

	var status bytes.Buffer
	c := &converter{opts: &sink.Options{}, status: &status, out: &status}
	if err := c.convert(path); err != nil {
		t.Fatalf("convert: %v", err)
	}

	f, err := os.Open(path + ".loop0.gif")
	if err != nil {
		t.Fatalf("loop animation not written: %v", err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("gif.DecodeAll: %v", err)
	}
	ttesting.AssertEqualInt(t, "frames", len(anim.Image), 2)
	ttesting.AssertEqualInt(t, "frame width", anim.Config.Width, 4)
	ttesting.AssertEqualInt(t, "delay", anim.Delay[0], loopFrameDelay)

	if _, err := os.Stat(path + ".loop1.gif"); !os.IsNotExist(err) {
		t.Errorf("empty loop was animated: %v", err)
	}
	if !strings.Contains(status.String(), "saved "+path+".loop0.gif") {
		t.Errorf("status does not report the animation:\n%s", status.String())
	}
}

func TestConvertDataURL(t *testing.T) {
	*printDataURL = true
	defer func() { *printDataURL = false }()
	path := writeWalker(t)

	var status, out bytes.Buffer
	c := &converter{opts: &sink.Options{}, status: &status, out: &out}
	c.printBanner()
	if err := c.convert(path); err != nil {
		t.Fatalf("convert: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	ttesting.AssertEqualInt(t, "stdout lines", len(lines), 1)
	if !strings.HasPrefix(lines[0], "data:image/png;base64,") {
		t.Errorf("got %q; want a png data URL", lines[0])
	}
	if !strings.Contains(status.String(), "done") {
		t.Errorf("status does not report completion:\n%s", status.String())
	}
	if _, err := os.Stat(path + ".png"); !os.IsNotExist(err) {
		t.Errorf("data URL mode wrote a file: %v", err)
	}
}

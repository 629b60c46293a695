// Package qrterm renders QR codes as terminal glyphs, so the login
// challenge can be scanned straight off the screen without a GUI.
package qrterm

import (
	"fmt"
	"io"

	qrcode "github.com/skip2/go-qrcode"
)

// Render writes the QR code for content to w using half-height block
// glyphs. Low error correction keeps the code small enough for narrow
// terminals.
func Render(w io.Writer, content string) error {
	code, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return fmt.Errorf("encode qr code: %w", err)
	}
	_, err = fmt.Fprint(w, code.ToSmallString(false))
	return err
}

// RenderBlocks writes the QR code using two full-width blocks per module,
// for terminals whose fonts break half-height glyphs.
func RenderBlocks(w io.Writer, content string) error {
	code, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return fmt.Errorf("encode qr code: %w", err)
	}
	for _, row := range code.Bitmap() {
		for _, dark := range row {
			if dark {
				fmt.Fprint(w, "██")
			} else {
				fmt.Fprint(w, "  ")
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

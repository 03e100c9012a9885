package render

import "strings"

const kittyChunkSize = 4096

// ToKittyGraphics wraps base64 PNG data in Kitty graphics protocol escapes.
// Payloads over 4096 bytes are sent as continuation chunks (m=1 until the
// last chunk, which carries m=0).
func ToKittyGraphics(b64Data string) string {
	if b64Data == "" {
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(b64Data); i += kittyChunkSize {
		end := i + kittyChunkSize
		if end > len(b64Data) {
			end = len(b64Data)
		}
		first := i == 0
		last := end == len(b64Data)

		b.WriteString("\033_G")
		switch {
		case first && last:
			b.WriteString("a=T,f=100")
		case first:
			b.WriteString("a=T,f=100,m=1")
		case last:
			b.WriteString("m=0")
		default:
			b.WriteString("m=1")
		}
		b.WriteByte(';')
		b.WriteString(b64Data[i:end])
		b.WriteString("\033\\")
	}
	return b.String()
}

// KittyPreview renders values and returns the escape sequence that shows them
func (r *Renderer) KittyPreview(values []string) (string, error) {
	b64, err := r.RenderBase64(values)
	if err != nil {
		return "", err
	}
	return ToKittyGraphics(b64), nil
}

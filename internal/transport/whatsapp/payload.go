package whatsapp

import "fmt"

// webhookPayload mirrors the WhatsApp Cloud API webhook envelope, down to the
// two fields the engine needs: sender phone and text body.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// firstMessage extracts the first inbound text message, if the envelope
// carries one. Status-only callbacks have no messages and are not an error.
func (p *webhookPayload) firstMessage() (from, body string, ok bool, err error) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return "", "", false, fmt.Errorf("payload missing entry/changes")
	}
	msgs := p.Entry[0].Changes[0].Value.Messages
	if len(msgs) == 0 {
		return "", "", false, nil
	}
	m := msgs[0]
	if m.From == "" || m.Text.Body == "" {
		return "", "", false, fmt.Errorf("message missing sender or text body")
	}
	return m.From, m.Text.Body, true, nil
}

package webhook

// Payload is the WhatsApp Business Cloud API webhook envelope.
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts"`
	Messages         []Message `json:"messages"`
	Statuses         []Status  `json:"statuses"`
}

type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type Message struct {
	ID        string       `json:"id"`
	From      string       `json:"from"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *MessageText `json:"text,omitempty"`
	Button    *struct {
		Text string `json:"text"`
	} `json:"button,omitempty"`
}

type MessageText struct {
	Body string `json:"body"`
}

type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// Body returns the user-visible text of a message. Media and other types
// carry none.
func (m Message) Body() string {
	switch {
	case m.Text != nil:
		return m.Text.Body
	case m.Button != nil:
		return m.Button.Text
	default:
		return ""
	}
}

type VerifyRequest struct {
	Mode      string `query:"hub.mode"`
	Token     string `query:"hub.verify_token"`
	Challenge string `query:"hub.challenge"`
}

type ProcessResult struct {
	OK         bool `json:"ok"`
	Processed  int  `json:"processed"`
	Duplicates int  `json:"duplicates"`
	Failed     int  `json:"failed"`
}

const (
	ObjectWhatsApp  = "whatsapp_business_account"
	FieldMessages   = "messages"
	ModeSubscribe   = "subscribe"
	SignatureHeader = "X-Hub-Signature-256"
)

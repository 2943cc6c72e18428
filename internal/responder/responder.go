// Package responder turns NLU output into a reply. The canned generator
// here stands in for a model-backed one; anything implementing Generator
// can replace it without touching the orchestrator.
package responder

import (
	"fmt"

	"github.com/fudosan-ai/qualibot/internal/domain"
	"github.com/fudosan-ai/qualibot/internal/lang"
	"github.com/fudosan-ai/qualibot/internal/nlu"
)

// Context carries what the generator may condition on for one turn.
type Context struct {
	SessionID string
	Language  string
	History   []HistoryEntry
	Intent    string
	Entities  domain.Entities
}

// HistoryEntry is one prior message, role and content only.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces a reply for a user message.
type Generator interface {
	Generate(message string, ctx Context) string
}

// Canned is a deterministic template-based generator keyed by
// (language, intent, entity presence).
type Canned struct{}

// NewCanned returns the canned generator.
func NewCanned() *Canned { return &Canned{} }

type templates struct {
	greeting        string
	buy             string
	buyWithLocation string // takes the location verbatim
	rent            string
	sell            string
	locationQuery   string
	budgetQuery     string
	confirmation    string
	negation        string
	fallback        string
}

var responseTable = map[string]templates{
	lang.Japanese: {
		greeting:        "こんにちは！お探しの物件について教えてください。",
		buy:             "ご購入をお考えなのですね。ご希望のエリアはございますか？",
		buyWithLocation: "%sでのご購入ですね。ご予算はどのくらいをお考えですか？",
		rent:            "賃貸をお探しなのですね。ご希望の間取りを教えてください。",
		sell:            "ご売却のご相談ですね。物件の所在地を教えていただけますか？",
		locationQuery:   "エリアのご希望を教えてください。駅からの距離などの条件もあれば合わせてどうぞ。",
		budgetQuery:     "ご予算の目安を教えてください。頭金のご予定があればそちらも伺えます。",
		confirmation:    "承知しました。続けてご希望の条件を教えてください。",
		negation:        "失礼しました。あらためてご希望の条件を教えてください。",
		fallback:        "かしこまりました。ご希望の条件を教えてください。",
	},
	lang.English: {
		greeting:        "Hello! Tell me about the property you are looking for.",
		buy:             "Looking to buy — do you have an area in mind?",
		buyWithLocation: "Buying in %s, got it. What budget are you considering?",
		rent:            "Looking to rent — what layout would suit you?",
		sell:            "You would like to sell. Where is the property located?",
		locationQuery:   "Which area are you interested in? Feel free to add conditions like distance to a station.",
		budgetQuery:     "What budget range do you have in mind? A planned down payment helps too.",
		confirmation:    "Understood. Please go on with your requirements.",
		negation:        "Sorry about that. Could you tell me your requirements again?",
		fallback:        "Noted. Please tell me more about what you are looking for.",
	},
	lang.Vietnamese: {
		greeting:        "Xin chào! Hãy cho tôi biết về bất động sản bạn đang tìm.",
		buy:             "Bạn muốn mua nhà — bạn đã có khu vực mong muốn chưa?",
		buyWithLocation: "Bạn muốn mua ở %s. Ngân sách dự kiến của bạn là bao nhiêu?",
		rent:            "Bạn muốn thuê nhà — bạn thích kiểu bố trí nào?",
		sell:            "Bạn muốn bán nhà. Bất động sản nằm ở đâu?",
		locationQuery:   "Bạn quan tâm khu vực nào? Có thể thêm điều kiện như khoảng cách đến ga.",
		budgetQuery:     "Ngân sách dự kiến của bạn là bao nhiêu?",
		confirmation:    "Đã hiểu. Xin tiếp tục cho biết yêu cầu của bạn.",
		negation:        "Xin lỗi. Bạn có thể cho biết lại yêu cầu của mình không?",
		fallback:        "Đã ghi nhận. Xin cho biết thêm về yêu cầu của bạn.",
	},
}

// defaultAck is the terminal fallback for unknown languages.
const defaultAck = "かしこまりました。ご希望の条件を教えてください。"

// Generate dispatches on language, then intent, then entity presence.
// Unknown language/intent combinations fall through to a fixed
// acknowledgment.
func (c *Canned) Generate(message string, ctx Context) string {
	tpl, ok := responseTable[ctx.Language]
	if !ok {
		return defaultAck
	}

	switch ctx.Intent {
	case nlu.IntentGreeting:
		return tpl.greeting
	case nlu.IntentPropertySearchBuy:
		if loc, ok := ctx.Entities[domain.EntityLocation]; ok {
			return fmt.Sprintf(tpl.buyWithLocation, loc.Text())
		}
		return tpl.buy
	case nlu.IntentPropertySearchRent:
		return tpl.rent
	case nlu.IntentPropertySearchSell:
		return tpl.sell
	case nlu.IntentLocationQuery:
		return tpl.locationQuery
	case nlu.IntentBudgetQuery:
		return tpl.budgetQuery
	case nlu.IntentConfirmation:
		return tpl.confirmation
	case nlu.IntentNegation:
		return tpl.negation
	default:
		return tpl.fallback
	}
}

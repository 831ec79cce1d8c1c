package memory

import (
	"regexp"
	"strings"

	"voiceorder/internal/core/domain/model/agent"
)

var (
	quantityPattern = regexp.MustCompile(`\b([1-9][0-9]*)\b`)
	ratingPattern   = regexp.MustCompile(`\b([1-5])\b`)
)

// KeywordIntentClassifier tags utterances by keyword lookup. It stands in
// for a proper NLU collaborator in single-node and test deployments; the
// production deployment swaps in a speech-pipeline-backed classifier behind
// the same interface.
type KeywordIntentClassifier struct{}

// NewKeywordIntentClassifier creates the keyword classifier.
func NewKeywordIntentClassifier() *KeywordIntentClassifier {
	return &KeywordIntentClassifier{}
}

// Classify tags the utterance and extracts the arguments the agents read.
// The raw text always travels along under the "text" key so agents can run
// their own fallback matching.
func (c *KeywordIntentClassifier) Classify(utterance string) (agent.Intent, map[string]string) {
	text := strings.ToLower(utterance)
	args := map[string]string{"text": utterance}

	intent := c.match(text)
	switch intent {
	case agent.IntentAddItem, agent.IntentRemoveItem:
		args["item"] = utterance
		if m := quantityPattern.FindStringSubmatch(text); m != nil {
			args["quantity"] = m[1]
		}
	case agent.IntentProvideAddr:
		args["address"] = strings.TrimSpace(utterance)
	case agent.IntentFeedback:
		if m := ratingPattern.FindStringSubmatch(text); m != nil {
			args["rating"] = m[1]
		}
	case agent.IntentComplaint:
		args["detail"] = strings.TrimSpace(utterance)
	case agent.IntentCancelOrder:
		args["reason"] = strings.TrimSpace(utterance)
	}

	return intent, args
}

func (c *KeywordIntentClassifier) match(text string) agent.Intent {
	contains := func(keywords ...string) bool {
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("cancel"):
		return agent.IntentCancelOrder
	case contains("refund", "money back"):
		return agent.IntentRefundRequest
	case contains("complaint", "complain", "wrong order", "cold food", "missing item"):
		return agent.IntentComplaint
	case contains("where is", "where's my", "track", "status"):
		return agent.IntentTrackOrder
	case contains("driver", "eta", "how long"):
		return agent.IntentDriverETA
	case contains("menu", "what do you have", "options"):
		return agent.IntentMenuInquiry
	case contains("remove", "take off", "don't want the"):
		return agent.IntentRemoveItem
	case contains("confirm", "place the order", "place my order", "that's all", "checkout"):
		return agent.IntentConfirmOrder
	case contains("deliver to", "address", "my house", "apartment", "road", "street"):
		return agent.IntentProvideAddr
	case contains("cash", "online", "card", "upi", "pay"):
		return agent.IntentChoosePayment
	case contains("rating", "rate", "stars", "feedback", "delicious", "terrible"):
		return agent.IntentFeedback
	case contains("bye", "goodbye", "thank you", "thanks"):
		return agent.IntentGoodbye
	case contains("add", "want", "order", "get me", "i'll have", "give me"):
		return agent.IntentAddItem
	default:
		return agent.IntentUnknown
	}
}

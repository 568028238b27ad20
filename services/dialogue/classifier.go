package dialogue

import (
	"strings"

	"glowbook/models"
)

// Topic is the coarse routing decision made before the state machine runs.
type Topic int

const (
	// TopicInFlow means the message belongs to the booking conversation and
	// should be handled by the state machine.
	TopicInFlow Topic = iota
	// TopicBookingQuestion is an on-domain question ("what does the gold
	// package include?") answered without advancing the flow.
	TopicBookingQuestion
	// TopicOffTopic is anything unrelated to the service.
	TopicOffTopic
)

func (t Topic) String() string {
	switch t {
	case TopicBookingQuestion:
		return "booking_question"
	case TopicOffTopic:
		return "off_topic"
	}
	return "in_flow"
}

// Classifier routes a message by vocabulary. It is biased toward the flow:
// off-topic is only declared for messages that look like questions or carry
// off-domain vocabulary, and only while a booking is actually in progress;
// during greeting everything is treated as in-flow so the opening exchange
// never escalates the counter.
type Classifier struct {
	questionStarters []string
	bookingVocab     []string
	offTopicVocab    []string
	socialVocab      []string
}

// NewClassifier builds the default vocabulary classifier. questionStarters
// shares the extractor's table so both layers agree on what a question is.
func NewClassifier(questionStarters []string) *Classifier {
	return &Classifier{
		questionStarters: questionStarters,
		bookingVocab: []string{
			"book", "booking", "appointment", "makeup", "bridal", "party",
			"engagement", "wedding", "henna", "mehendi", "package", "service",
			"price", "cost", "charge", "rate", "artist", "slot", "available",
			"availability", "reschedule", "cancel", "otp", "confirm",
		},
		offTopicVocab: []string{
			"weather", "cricket", "football", "movie", "song", "politics",
			"election", "stock", "crypto", "bitcoin", "recipe", "joke",
			"news", "game", "homework", "translate", "poem",
		},
		socialVocab: []string{
			"instagram", "facebook", "twitter", "youtube", "linkedin",
			"tiktok", "snapchat", "social media", "follow", "handle",
		},
	}
}

// Classify routes one message given the session's current stage.
func (c *Classifier) Classify(state models.ConversationState, message string) Topic {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return TopicInFlow
	}
	question := c.isQuestion(msg)
	switch {
	case hasAnyWord(msg, c.socialVocab):
		// Social-media asks count against the off-topic budget once a
		// booking is underway; before that they just get the canned answer.
		if state.InBookingFlow() {
			return TopicOffTopic
		}
		return TopicBookingQuestion
	case question && hasAnyWord(msg, c.bookingVocab):
		return TopicBookingQuestion
	case hasAnyWord(msg, c.offTopicVocab) && state.InBookingFlow():
		return TopicOffTopic
	case question && !hasAnyWord(msg, c.bookingVocab) && state.InBookingFlow():
		return TopicOffTopic
	}
	return TopicInFlow
}

// IsSocial reports whether the message is about social-media presence, which
// gets a canned reply instead of a knowledge lookup.
func (c *Classifier) IsSocial(message string) bool {
	return hasAnyWord(strings.ToLower(message), c.socialVocab)
}

func (c *Classifier) isQuestion(msg string) bool {
	if strings.Contains(msg, "?") {
		return true
	}
	for _, starter := range c.questionStarters {
		if msg == starter || strings.HasPrefix(msg, starter+" ") {
			return true
		}
	}
	return false
}

// hasAnyWord matches single-word vocabulary on token boundaries and
// multi-word phrases as substrings.
func hasAnyWord(msg string, vocab []string) bool {
	var tokens []string
	for _, kw := range vocab {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(msg, kw) {
				return true
			}
			continue
		}
		if tokens == nil {
			tokens = strings.FieldsFunc(msg, func(r rune) bool {
				return r == ' ' || r == ',' || r == '.' || r == '?' || r == '!' || r == ';'
			})
		}
		for _, tok := range tokens {
			if tok == kw {
				return true
			}
		}
	}
	return false
}

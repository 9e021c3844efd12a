package chat

// Event is the server-to-client message shape. It is used both for genuine
// chat messages and for system/moderator announcements; system events carry
// a fixed pseudo-author or an empty author string.
type Event struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Inbound is the client-to-server message shape.
type Inbound struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

// Pseudo-authors for moderator announcements.
const (
	ToxicityModerator  = "Toxicity Moderator"
	SentimentModerator = "Sentiment Moderator"
)

// Fixed announcement texts.
const (
	suppressionNotice       = "This message has been flagged as toxic and has been removed."
	positiveAnnotation      = "This message has been flagged as positive."
	negativeAnnotation      = "This message has been flagged as negative."
	joinAnnouncementFormat  = "%s joined the Woody's Wild Guess chat room."
	leaveAnnouncementFormat = "%s has left the chat room."
)

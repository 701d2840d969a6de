package tags

// Event kinds emitted by the tag service.
const (
	KindTagCreated = "pagekit.tag.created"
	KindTagUpdated = "pagekit.tag.updated"
)

// TagCreated carries the persisted tag after a successful create.
type TagCreated struct {
	Tag *Tag
}

// Kind implements interfaces.Event.
func (TagCreated) Kind() string { return KindTagCreated }

// TagUpdated carries the persisted tag after a successful update.
type TagUpdated struct {
	Tag *Tag
}

// Kind implements interfaces.Event.
func (TagUpdated) Kind() string { return KindTagUpdated }

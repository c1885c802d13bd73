package activity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ActivityPub and ActivityStreams vocabulary

const (
	IDProperty      = "id"
	TypeProperty    = "type"
	ContextProperty = "@context"
)

const (
	Context = "https://www.w3.org/ns/activitystreams"
	// ContentTypeLD is what we ask for when dereferencing a link
	ContentTypeLD = `application/ld+json; profile="https://www.w3.org/ns/activitystreams"`
)

// Type is one of the closed set of ActivityStreams type names.
type Type string

// Core types
const (
	ObjectType                Type = "Object"
	LinkType                  Type = "Link"
	CollectionType            Type = "Collection"
	OrderedCollectionType     Type = "OrderedCollection"
	CollectionPageType        Type = "CollectionPage"
	OrderedCollectionPageType Type = "OrderedCollectionPage"
)

// Activity types
const (
	ActivityType             Type = "Activity"
	AddType                  Type = "Add"
	AnnounceType             Type = "Announce"
	UndoType                 Type = "Undo"
	UpdateType               Type = "Update"
	ViewType                 Type = "View"
	BlockType                Type = "Block"
	CreateType               Type = "Create"
	DeleteType               Type = "Delete"
	DislikeType              Type = "Dislike"
	FlagType                 Type = "Flag"
	FollowType               Type = "Follow"
	IgnoreType               Type = "Ignore"
	JoinType                 Type = "Join"
	LeaveType                Type = "Leave"
	LikeType                 Type = "Like"
	ListenType               Type = "Listen"
	MoveType                 Type = "Move"
	ReadType                 Type = "Read"
	RemoveType               Type = "Remove"
	OfferType                Type = "Offer"
	InviteType               Type = "Invite"
	RejectType               Type = "Reject"
	TentativeRejectType      Type = "TentativeReject"
	AcceptType               Type = "Accept"
	TentativeAcceptType      Type = "TentativeAccept"
	ArriveType               Type = "Arrive"
	IntransitiveActivityType Type = "IntransitiveActivity"
	TravelType               Type = "Travel"
	QuestionType             Type = "Question"
)

// Actor types
const (
	ActorType        Type = "Actor"
	ApplicationType  Type = "Application"
	GroupType        Type = "Group"
	OrganizationType Type = "Organization"
	PersonType       Type = "Person"
	ServiceType      Type = "Service"
)

// Extended object and link types
const (
	ArticleType      Type = "Article"
	AudioType        Type = "Audio"
	DocumentType     Type = "Document"
	EventType        Type = "Event"
	ImageType        Type = "Image"
	NoteType         Type = "Note"
	PageType         Type = "Page"
	PlaceType        Type = "Place"
	ProfileType      Type = "Profile"
	RelationshipType Type = "Relationship"
	TombstoneType    Type = "Tombstone"
	VideoType        Type = "Video"
	MentionType      Type = "Mention"
)

var knownTypes = map[Type]struct{}{}

func init() {
	for _, t := range []Type{
		ObjectType, LinkType, CollectionType, OrderedCollectionType, CollectionPageType,
		OrderedCollectionPageType, ActivityType, AddType, AnnounceType, UndoType, UpdateType,
		ViewType, BlockType, CreateType, DeleteType, DislikeType, FlagType, FollowType,
		IgnoreType, JoinType, LeaveType, LikeType, ListenType, MoveType, ReadType, RemoveType,
		OfferType, InviteType, RejectType, TentativeRejectType, AcceptType,
		TentativeAcceptType, ArriveType, IntransitiveActivityType, TravelType, QuestionType,
		ActorType, ApplicationType, GroupType, OrganizationType, PersonType, ServiceType,
		ArticleType, AudioType, DocumentType, EventType, ImageType, NoteType, PageType,
		PlaceType, ProfileType, RelationshipType, TombstoneType, VideoType, MentionType,
	} {
		knownTypes[t] = struct{}{}
	}
}

// ErrUnknownType is returned when a type tag is not part of the vocabulary.
var ErrUnknownType = errors.New("unknown activitystreams type")

type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnknownType, e.Tag)
}

func (e *UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}

// Valid reports whether t is in the vocabulary.
func (t Type) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

// ParseType never maps an unrecognized tag to a default.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", &UnknownTypeError{Tag: s}
	}
	return t, nil
}

func (t Type) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, &UnknownTypeError{Tag: string(t)}
	}
	return json.Marshal(string(t))
}

func (t *Type) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("type must be a string: %w", err)
	}
	parsed, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

package proto

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type PingResponse struct {
	Status string `json:"status"`
}

type NewUser struct {
	Name      string `json:"name"`
	SecretKey string `json:"secretKey,omitempty"`
}

type InitUsersRequest struct {
	Users []NewUser `json:"users"`
}

type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type InitUsersResponse struct {
	Created []UserRef   `json:"created"`
	Errors  []UserError `json:"errors,omitempty"`
}

type Pair struct {
	Name       string `json:"name"`
	AssignedTo string `json:"assignedTo"`
}

type ShuffleResponse struct {
	Assignments []Pair `json:"assignments"`
	Fallback    bool   `json:"fallback"`
	ArchiveKey  string `json:"archiveKey,omitempty"`
}

type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HasKey     bool   `json:"hasKey"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type ClearMessagesResponse struct {
	Deleted int64 `json:"deleted"`
}

type Archive struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	URL          string    `json:"url"`
}

type ListArchivesResponse struct {
	Archives []Archive `json:"archives"`
}

// Encode converts a DTO into a Struct through its JSON form.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return s, nil
}

// Decode fills the DTO v from a Struct produced by Encode. A nil Struct
// leaves v untouched.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

package domain

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DefaultEditWindow is how long an author may edit a comment after posting it.
const DefaultEditWindow = 15 * time.Minute

type Comment struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	ParentID      *string   `json:"parent_id"`
	Content       string    `json:"content"`
	IsEdited      bool      `json:"is_edited"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CanEdit reports whether userID may still edit or delete c at now.
func (c *Comment) CanEdit(userID string, now time.Time, window time.Duration) bool {
	if c == nil || userID == "" || c.AuthorID != userID {
		return false
	}
	if window <= 0 {
		window = DefaultEditWindow
	}
	return now.Sub(c.CreatedAt) < window
}

// Thread is an arena of comments by id plus a parent -> children index. Replies are nested
// one level deep: a reply to a reply hangs off the top-level comment.
type Thread struct {
	byID     map[string]*Comment
	roots    []string
	children map[string][]string
}

// BuildThread indexes a flat comment list. Input order does not matter; roots and replies
// come out oldest first.
func BuildThread(comments []Comment) *Thread {
	t := &Thread{
		byID:     make(map[string]*Comment, len(comments)),
		children: make(map[string][]string),
	}
	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	for i := range sorted {
		t.byID[sorted[i].ID] = &sorted[i]
	}
	for _, c := range sorted {
		parent := t.RootOf(c.ID)
		if parent == c.ID {
			t.roots = append(t.roots, c.ID)
			continue
		}
		t.children[parent] = append(t.children[parent], c.ID)
	}
	return t
}

// RootOf follows parent links up to the top-level comment. A comment whose parent is
// unknown is treated as top-level.
func (t *Thread) RootOf(id string) string {
	seen := map[string]bool{}
	cur := id
	for {
		c, ok := t.byID[cur]
		if !ok || c.ParentID == nil || seen[cur] {
			return cur
		}
		if _, ok := t.byID[*c.ParentID]; !ok {
			return cur
		}
		seen[cur] = true
		cur = *c.ParentID
	}
}

func (t *Thread) Get(id string) (*Comment, bool) {
	c, ok := t.byID[id]
	return c, ok
}

func (t *Thread) Len() int {
	return len(t.byID)
}

// ThreadNode is a top-level comment with its replies, ready for rendering.
type ThreadNode struct {
	Comment
	CanEdit bool         `json:"can_edit"`
	Replies []ThreadNode `json:"replies"`
}

// Nodes renders the thread for viewer at now, computing the edit flag on every call.
func (t *Thread) Nodes(viewerID string, now time.Time, window time.Duration) []ThreadNode {
	nodes := make([]ThreadNode, 0, len(t.roots))
	for _, id := range t.roots {
		root := t.byID[id]
		node := ThreadNode{
			Comment: *root,
			CanEdit: root.CanEdit(viewerID, now, window),
			Replies: []ThreadNode{},
		}
		for _, cid := range t.children[id] {
			child := t.byID[cid]
			node.Replies = append(node.Replies, ThreadNode{
				Comment: *child,
				CanEdit: child.CanEdit(viewerID, now, window),
				Replies: []ThreadNode{},
			})
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Participant is someone who can be mentioned in a thread.
type Participant struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// MentionQuery looks for an "@token" of non-space characters ending at cursor (a byte offset
// in text). It returns the token without "@", the offset of "@", and whether one was found.
func MentionQuery(text string, cursor int) (string, int, bool) {
	if cursor < 0 || cursor > len(text) {
		cursor = len(text)
	}
	head := text[:cursor]
	for i := len(head); i > 0; {
		r, size := utf8.DecodeLastRuneInString(head[:i])
		if unicode.IsSpace(r) {
			return "", -1, false
		}
		i -= size
		if r == '@' {
			if i > 0 {
				prev, _ := utf8.DecodeLastRuneInString(head[:i])
				if !unicode.IsSpace(prev) {
					return "", -1, false
				}
			}
			return head[i+size:], i, true
		}
	}
	return "", -1, false
}

// FilterParticipants keeps participants whose name contains query, ignoring case.
func FilterParticipants(participants []Participant, query string) []Participant {
	q := strings.ToLower(query)
	out := make([]Participant, 0, len(participants))
	for _, p := range participants {
		if strings.Contains(strings.ToLower(p.FullName), q) {
			out = append(out, p)
		}
	}
	return out
}

// InsertMention replaces the "@token" ending at cursor with "@<fullName> " and returns the new
// text and the cursor placed right after the inserted space. Without a token at cursor the
// mention is inserted at cursor.
func InsertMention(text string, cursor int, fullName string) (string, int) {
	if cursor < 0 || cursor > len(text) {
		cursor = len(text)
	}
	start := cursor
	if _, at, ok := MentionQuery(text, cursor); ok {
		start = at
	}
	mention := "@" + fullName + " "
	out := text[:start] + mention + text[cursor:]
	return out, start + len(mention)
}

// MentionedParticipants returns the participants whose "@FullName" appears in content.
func MentionedParticipants(content string, participants []Participant) []Participant {
	var out []Participant
	seen := map[string]bool{}
	for _, p := range participants {
		if p.FullName == "" || seen[p.UserID] {
			continue
		}
		if strings.Contains(content, "@"+p.FullName) {
			seen[p.UserID] = true
			out = append(out, p)
		}
	}
	return out
}

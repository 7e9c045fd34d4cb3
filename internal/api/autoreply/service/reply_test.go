package autoreplyService

import (
	"WaiAutoReply/internal/api/autoreply"
	"WaiAutoReply/pkg/locale"
	"WaiAutoReply/pkg/nlp"
	"WaiAutoReply/pkg/utils"
	"context"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short", in: "price", limit: 10, want: "price"},
		{name: "exact", in: "price", limit: 5, want: "price"},
		{name: "ascii cut", in: "price list", limit: 5, want: "price"},
		{name: "devanagari cut", in: "किंमत किती", limit: 3, want: "किं"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateRunes(tt.in, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestReply_LongMessageStillAnswered(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	kb, err := nlp.NewKnowledgeBase([]nlp.Intent{
		{Tag: "pricing", Patterns: []string{"price"}, Replies: []string{"Listing costs 99"}},
	})
	require.NoError(t, err)

	translator, err := locale.New("mr")
	require.NoError(t, err)

	svc := NewAutoReplyService(logger, nlp.NewResponder(nlp.NewMatcher(kb)), translator, utils.New())

	text := "price " + strings.Repeat("a ", autoreply.MaxTextRunes)
	resp, err := svc.Reply(context.Background(), autoreply.ReplyRequest{
		Text: autoreply.MessageText(text),
		From: "919800000000",
	})
	require.NoError(t, err)

	assert.Equal(t, "Listing costs 99", resp.Reply)
	assert.Equal(t, "pricing", resp.Tag)
	assert.Equal(t, "919800000000", resp.To)
}

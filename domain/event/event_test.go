package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllKinds_HaveNamespace(t *testing.T) {
	req := require.New(t)
	for _, k := range AllKinds() {
		req.True(k.Valid(), string(k))
		req.NotEmpty(k.Namespace(), string(k))
	}
	req.Len(AllKinds(), len(namespaces))
}

func TestKind_UnknownIsInvalid(t *testing.T) {
	req := require.New(t)
	k := Kind("POST_SHARED")
	req.False(k.Valid())
	req.Empty(k.Namespace())
}

func TestDomainEvent_IsSelfDirected(t *testing.T) {
	req := require.New(t)

	// Given U1 liking their own post
	self := New(PostLiked, "u1", "u1", nil)
	// And U1 liking U2's post
	other := New(PostLiked, "u2", "u1", map[string]string{MetaPostID: "p1"})

	req.True(self.IsSelfDirected())
	req.False(other.IsSelfDirected())
	req.NotNil(self.Metadata)
	req.Equal("p1", other.Metadata[MetaPostID])
	req.False(other.OccurredAt.IsZero())
}

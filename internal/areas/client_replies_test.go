package areas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsrsim/verifier/internal/interfaces"
	"github.com/vsrsim/verifier/internal/schema"
)

func TestClientReplies_AllVacantIsZero(t *testing.T) {
	sb := &fakeSuperblock{
		sessions: []interfaces.ClientSessionSlot{{}, {}, {}},
	}
	storage := &fakeStorage{}

	got, err := ClientReplies(sb, storage, 512)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestClientReplies_RequiresNonSyncing(t *testing.T) {
	sb := &fakeSuperblock{syncOpMax: 7}
	_, err := ClientReplies(sb, &fakeStorage{}, 512)
	assert.Error(t, err)
}

func TestClientReplies_HeaderOnlySlotSkipped(t *testing.T) {
	sb := &fakeSuperblock{
		sessions: []interfaces.ClientSessionSlot{
			{SessionID: 1, Header: interfaces.BlockHeader{Command: interfaces.CommandReply, Size: schema.HeaderOnlySize}},
		},
	}
	got, err := ClientReplies(sb, &fakeStorage{}, 512)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestClientReplies_NonReplyCommandIsAssertionFailure(t *testing.T) {
	sb := &fakeSuperblock{
		sessions: []interfaces.ClientSessionSlot{
			{SessionID: 1, Header: interfaces.BlockHeader{Command: interfaces.CommandReserved, Size: 1024}},
		},
	}
	_, err := ClientReplies(sb, &fakeStorage{}, 512)
	assert.Error(t, err)
}

func TestClientReplies_XorIsOrderInsensitive(t *testing.T) {
	slotA := interfaces.ClientSessionSlot{SessionID: 1, Header: interfaces.BlockHeader{Command: interfaces.CommandReply, Size: 600}}
	slotB := interfaces.ClientSessionSlot{SessionID: 2, Header: interfaces.BlockHeader{Command: interfaces.CommandReply, Size: 900}}

	dataA := make([]byte, 1024)
	for i := range dataA {
		dataA[i] = byte(i)
	}
	dataB := make([]byte, 1024)
	for i := range dataB {
		dataB[i] = byte(255 - i)
	}

	sbForward := &fakeSuperblock{sessions: []interfaces.ClientSessionSlot{slotA, slotB}}
	storageForward := &fakeStorage{slots: map[int][]byte{0: dataA, 1: dataB}}

	sbReverse := &fakeSuperblock{sessions: []interfaces.ClientSessionSlot{slotB, slotA}}
	storageReverse := &fakeStorage{slots: map[int][]byte{0: dataB, 1: dataA}}

	gotForward, err := ClientReplies(sbForward, storageForward, 512)
	require.NoError(t, err)
	gotReverse, err := ClientReplies(sbReverse, storageReverse, 512)
	require.NoError(t, err)

	assert.Equal(t, gotForward, gotReverse)
}

func TestClientReplies_SensitiveToPayload(t *testing.T) {
	slot := interfaces.ClientSessionSlot{SessionID: 1, Header: interfaces.BlockHeader{Command: interfaces.CommandReply, Size: 600}}

	dataA := make([]byte, 1024)
	dataB := make([]byte, 1024)
	dataB[10] = 0xFF

	sbA := &fakeSuperblock{sessions: []interfaces.ClientSessionSlot{slot}}
	storageA := &fakeStorage{slots: map[int][]byte{0: dataA}}
	sbB := &fakeSuperblock{sessions: []interfaces.ClientSessionSlot{slot}}
	storageB := &fakeStorage{slots: map[int][]byte{0: dataB}}

	gotA, err := ClientReplies(sbA, storageA, 512)
	require.NoError(t, err)
	gotB, err := ClientReplies(sbB, storageB, 512)
	require.NoError(t, err)

	assert.NotEqual(t, gotA, gotB)
}

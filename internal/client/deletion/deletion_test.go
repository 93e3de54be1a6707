package deletion

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dmitrijs2005/libadmin/internal/client/client"
	"github.com/dmitrijs2005/libadmin/internal/client/notify"
	"github.com/dmitrijs2005/libadmin/internal/client/query"
	"github.com/dmitrijs2005/libadmin/internal/client/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	client.Gateway

	removed   []int64
	removeErr error

	listed []client.ListParams
	subs   []client.Record
}

func (f *fakeGateway) Remove(_ context.Context, _ schema.Entity, id int64) error {
	f.removed = append(f.removed, id)
	return f.removeErr
}

func (f *fakeGateway) List(_ context.Context, _ schema.Entity, p client.ListParams) ([]client.Record, error) {
	f.listed = append(f.listed, p)
	if p.Skip > 0 {
		return nil, nil
	}
	return f.subs, nil
}

type scriptedConfirmer struct {
	answers []bool
	prompts []string
	// err is returned once the answers run out.
	err error
}

func (s *scriptedConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return false, s.err
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

type countingRefresher struct{ n int }

func (c *countingRefresher) Refresh(context.Context) (query.Page, error) {
	c.n++
	return query.Page{}, nil
}

func TestRequestDelete_Declined(t *testing.T) {
	gw := &fakeGateway{}
	conf := &scriptedConfirmer{answers: []bool{false}}
	w := New(gw, conf, nil, nil, nil)

	out, err := w.RequestDelete(context.Background(), schema.Book, client.Record{"book_id": 3, "title": "Dune"})
	require.NoError(t, err)
	assert.True(t, out.Cancelled)
	assert.Empty(t, gw.removed)
	assert.Equal(t, []string{`Delete "Dune"?`}, conf.prompts)
}

func TestRequestDelete_ConfirmFailureIsNotified(t *testing.T) {
	gw := &fakeGateway{}
	rec := &notify.Recorder{}
	conf := &scriptedConfirmer{err: io.EOF}
	w := New(gw, conf, nil, rec, nil)

	out, err := w.RequestDelete(context.Background(), schema.Book, client.Record{"book_id": 3, "title": "Dune"})
	require.ErrorIs(t, err, io.EOF)
	assert.False(t, out.Deleted)
	assert.Empty(t, gw.removed)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Notice{Level: notify.Error, Message: "Delete aborted: EOF"}, last)
}

func TestRequestDelete_Success(t *testing.T) {
	gw := &fakeGateway{}
	rec := &notify.Recorder{}
	ref := &countingRefresher{}
	w := New(gw, &scriptedConfirmer{answers: []bool{true}}, ref, rec, nil)

	out, err := w.RequestDelete(context.Background(), schema.Subscription, client.Record{"subscription_id": 12})
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.Equal(t, "subscription #12", out.Name)
	assert.Equal(t, []int64{12}, gw.removed)
	assert.Equal(t, 1, ref.n)

	last, _ := rec.Last()
	assert.Equal(t, notify.Notice{Level: notify.Success, Message: `"subscription #12" deleted`}, last)
}

func TestRequestDelete_MissingIdentifier(t *testing.T) {
	gw := &fakeGateway{}
	conf := &scriptedConfirmer{answers: []bool{true}}
	rec := &notify.Recorder{}
	w := New(gw, conf, nil, rec, nil)

	_, err := w.RequestDelete(context.Background(), schema.Library, client.Record{"name": "Central"})
	var ie *schema.IdentityError
	require.ErrorAs(t, err, &ie)
	assert.Empty(t, conf.prompts)
	assert.Empty(t, gw.removed)
	assert.Len(t, rec.Notices(), 1)
}

func TestRequestDelete_ReaderWithActiveSubscriptions(t *testing.T) {
	gw := &fakeGateway{
		removeErr: &client.ServerError{Status: 400, Detail: "Reader has active subscriptions"},
		subs:      []client.Record{{"subscription_id": 1, "reader_id": 5}},
	}
	conf := &scriptedConfirmer{answers: []bool{true, true}}
	rec := &notify.Recorder{}
	ref := &countingRefresher{}
	w := New(gw, conf, ref, rec, nil)

	out, err := w.RequestDelete(context.Background(), schema.Reader, client.Record{"reader_id": 5, "full_name": "Ann"})
	require.Error(t, err)
	require.NotNil(t, out.Remediation)
	assert.Equal(t, int64(5), out.Remediation.ReaderID)
	assert.Len(t, out.ActiveSubscriptions, 1)
	assert.Equal(t, 0, ref.n)

	require.Len(t, conf.prompts, 2)
	require.Len(t, gw.listed, 1)
	assert.Equal(t, "5", gw.listed[0].Extra.Get("reader_id"))
	assert.Equal(t, "true", gw.listed[0].Extra.Get("active_only"))

	notices := rec.Notices()
	require.NotEmpty(t, notices)
	assert.Equal(t, notify.Notice{Level: notify.Error, Message: "Delete failed: Reader has active subscriptions"}, notices[0])
}

func TestRequestDelete_RemediationDeclined(t *testing.T) {
	gw := &fakeGateway{removeErr: &client.ServerError{Status: 400, Detail: "Reader has ACTIVE SUBSCRIPTIONS"}}
	w := New(gw, &scriptedConfirmer{answers: []bool{true, false}}, nil, nil, nil)

	out, err := w.RequestDelete(context.Background(), schema.Reader, client.Record{"reader_id": 5})
	require.Error(t, err)
	require.NotNil(t, out.Remediation)
	assert.Nil(t, out.ActiveSubscriptions)
	assert.Empty(t, gw.listed)
}

func TestRequestDelete_NoRemediationForOtherEntities(t *testing.T) {
	gw := &fakeGateway{removeErr: &client.ServerError{Status: 400, Detail: "Library has active subscriptions"}}
	conf := &scriptedConfirmer{answers: []bool{true, true}}
	w := New(gw, conf, nil, nil, nil)

	out, err := w.RequestDelete(context.Background(), schema.Library, client.Record{"library_id": 1, "name": "Central"})
	require.Error(t, err)
	assert.Nil(t, out.Remediation)
	assert.Len(t, conf.prompts, 1)
}

func TestRequestDelete_TransportError(t *testing.T) {
	gw := &fakeGateway{removeErr: &client.TransportError{Op: "DELETE", URL: "x", Err: errors.New("refused")}}
	rec := &notify.Recorder{}
	w := New(gw, &scriptedConfirmer{answers: []bool{true}}, nil, rec, nil)

	out, err := w.RequestDelete(context.Background(), schema.Topic, client.Record{"topic_id": 2, "name": "Poetry"})
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.False(t, out.Deleted)
	last, _ := rec.Last()
	assert.Equal(t, "Network error while deleting", last.Message)
}

package activity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonFunctional_EmptyManyIsNone(t *testing.T) {
	empty := Many[string]()
	none := None[string]()
	assert.True(t, empty.IsNone())
	assert.Equal(t, none, empty)

	var nf NonFunctional[string]
	require.NoError(t, nf.Set())
	assert.True(t, nf.IsNone())
	assert.Equal(t, 0, nf.Len())
	_, ok := nf.Iter().Next()
	assert.False(t, ok)
}

func TestNonFunctional_UnmarshalShapes(t *testing.T) {
	var one NonFunctional[string]
	require.NoError(t, json.Unmarshal([]byte(`"a"`), &one))
	assert.Equal(t, One("a"), one)
	assert.False(t, one.IsMany())

	var many NonFunctional[string]
	require.NoError(t, json.Unmarshal([]byte(`["a", "b"]`), &many))
	assert.Equal(t, Many("a", "b"), many)

	var empty NonFunctional[string]
	require.NoError(t, json.Unmarshal([]byte(`[]`), &empty))
	assert.True(t, empty.IsNone())

	var null NonFunctional[string]
	require.NoError(t, json.Unmarshal([]byte(`null`), &null))
	assert.True(t, null.IsNone())

	var wrong NonFunctional[string]
	assert.Error(t, json.Unmarshal([]byte(`12`), &wrong))
}

func TestNonFunctional_MarshalShapes(t *testing.T) {
	b, err := json.Marshal(One("a"))
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(b))

	// a list of one stays a list
	b, err = json.Marshal(Many("a"))
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(b))

	b, err = json.Marshal(Many("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(b))
}

func TestNonFunctional_Iter(t *testing.T) {
	nf := Many("a", "b", "c")
	it := nf.Iter()
	var got []string
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	// restartable
	it.Reset()
	v, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	one := One("x")
	var indexes []int
	for i, v := range one.All() {
		indexes = append(indexes, i)
		assert.Equal(t, "x", v)
	}
	assert.Equal(t, []int{0}, indexes)

	none := None[string]()
	for range none.All() {
		t.Fatal("None should yield nothing")
	}
}

func TestNonFunctional_IterMut(t *testing.T) {
	nf := Many("a", "b")
	it, err := nf.IterMut()
	require.NoError(t, err)
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		*p = *p + "!"
	}

	// a second live traversal is refused
	_, err = nf.IterMut()
	assert.ErrorIs(t, err, ErrAlreadyBorrowed)

	it.Release()
	it.Release()
	assert.Equal(t, []string{"a!", "b!"}, nf.Values())

	again, err := nf.IterMut()
	require.NoError(t, err)
	defer again.Release()
	p, ok := again.Next()
	require.True(t, ok)
	assert.Equal(t, "a!", *p)
}

func TestNonFunctional_Add(t *testing.T) {
	var nf NonFunctional[string]
	require.NoError(t, nf.Add("a"))
	assert.Equal(t, One("a"), nf)
	require.NoError(t, nf.Add("b"))
	assert.Equal(t, Many("a", "b"), nf)
	require.NoError(t, nf.Clear())
	assert.True(t, nf.IsNone())
}

func TestNonFunctional_ShapeFixedWhileBorrowed(t *testing.T) {
	nf := Many("a", "b")
	it, err := nf.IterMut()
	require.NoError(t, err)

	p, ok := it.Next()
	require.True(t, ok)

	assert.ErrorIs(t, nf.Add("c"), ErrAlreadyBorrowed)
	assert.ErrorIs(t, nf.Set("x"), ErrAlreadyBorrowed)
	assert.ErrorIs(t, nf.Clear(), ErrAlreadyBorrowed)
	assert.ErrorIs(t, json.Unmarshal([]byte(`"z"`), &nf), ErrAlreadyBorrowed)

	// the handed out pointer still aliases the container
	*p = "a!"
	assert.Equal(t, []string{"a!", "b"}, nf.Values())

	it.Release()
	require.NoError(t, nf.Add("c"))
	assert.Equal(t, []string{"a!", "b", "c"}, nf.Values())
}

package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wardrobe "github.com/reoutfit/reoutfit-backend/internal/wardrobe/domain"
)

func strp(s string) *string { return &s }

func TestFlatten_LinkOverridesItem(t *testing.T) {
	item := wardrobe.Item{ID: "w1", Name: "Linen shirt", Category: strp("shirts"), Note: strp("wash cold")}
	link := Link{Role: strp("top"), Category: strp("tops"), Position: 2, CreatedAt: time.Unix(100, 0)}

	p := Flatten(item, link)

	assert.Equal(t, "tops", *p.Category)
	assert.Equal(t, "wash cold", *p.Note)
	assert.Equal(t, "top", *p.LinkRole)
	assert.Equal(t, 2, p.Position)
	assert.Equal(t, "shirts", *item.Category, "item passed by value must stay untouched")
}

func TestProduct_JSONShape(t *testing.T) {
	p := Flatten(wardrobe.Item{ID: "w1", Name: "Linen shirt"}, Link{Role: strp("top")})

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "top", out["linkRole"])
	assert.NotContains(t, out, "link_role")
	assert.Equal(t, "Linen shirt", out["name"])
	assert.Equal(t, "w1", out["id"])
}

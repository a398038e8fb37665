package viewport

import (
	"strings"
	"testing"

	"github.com/dshills/alnstorm/internal/engine/alignment"
)

func testAlignment(rows, width int) *alignment.Alignment {
	pairs := make([][2]string, rows)
	for i := range pairs {
		pairs[i] = [2]string{"s", strings.Repeat("A", width)}
	}
	return alignment.FromStrings(pairs...)
}

func TestNew(t *testing.T) {
	v := New(0, -3, 0, 0)
	w, h := v.Size()
	if w != 1 || h != 1 {
		t.Errorf("expected size clamped to 1x1, got %dx%d", w, h)
	}
	if v.StartRes() != 0 || v.StartSeq() != 0 {
		t.Error("expected scroll origin")
	}
}

func TestScrollWindow(t *testing.T) {
	v := New(100, 50, 10, 10) // 10 columns by 5 rows
	v.SyncAlignment(testAlignment(20, 40))

	if v.EndRes() != 9 {
		t.Errorf("EndRes() = %d, want 9", v.EndRes())
	}
	if v.EndSeq() != 4 {
		t.Errorf("EndSeq() = %d, want 4", v.EndSeq())
	}

	v.ScrollTo(12, 3)
	if v.StartRes() != 12 || v.EndRes() != 21 || v.StartSeq() != 3 {
		t.Errorf("after ScrollTo: %d..%d row %d", v.StartRes(), v.EndRes(), v.StartSeq())
	}

	// clamped so the last page stays full
	v.ScrollTo(100, 100)
	if v.StartRes() != 30 || v.StartSeq() != 15 {
		t.Errorf("after clamped ScrollTo: res %d seq %d", v.StartRes(), v.StartSeq())
	}
	v.ScrollTo(-4, -4)
	if v.StartRes() != 0 || v.StartSeq() != 0 {
		t.Errorf("after negative ScrollTo: res %d seq %d", v.StartRes(), v.StartSeq())
	}
}

func TestScrollBy(t *testing.T) {
	v := New(100, 50, 10, 10)
	v.SyncAlignment(testAlignment(20, 40))

	if !v.ScrollBy(2, 1) {
		t.Error("ScrollBy(2, 1) reported no movement")
	}
	if v.StartRes() != 2 || v.StartSeq() != 1 {
		t.Errorf("res %d seq %d", v.StartRes(), v.StartSeq())
	}
	if v.ScrollBy(-5, -5) != true || v.ScrollBy(-1, -1) {
		t.Error("expected the second scroll past the origin to be a no-op")
	}
}

func TestHiddenColumnsShrinkScrollRange(t *testing.T) {
	al := testAlignment(3, 40)
	al.HiddenColumns().Hide(0, 9)
	v := New(100, 50, 10, 10)
	v.SyncAlignment(al)

	v.ScrollTo(100, 0)
	if v.StartRes() != 20 {
		t.Errorf("StartRes() = %d, want 20", v.StartRes())
	}
}

func TestWrappedScroll(t *testing.T) {
	v := New(100, 300, 10, 10)
	v.SyncAlignment(testAlignment(10, 200))
	v.SetWrapped(true, 60)
	v.SetScaleRows(1)

	// band is 110 high, two bands fit
	if v.EndRes() != 119 {
		t.Errorf("EndRes() = %d, want 119", v.EndRes())
	}
	v.ScrollTo(70, 5)
	if v.StartRes() != 60 || v.StartSeq() != 0 {
		t.Errorf("wrapped ScrollTo: res %d seq %d", v.StartRes(), v.StartSeq())
	}
	v.ScrollBy(0, 1)
	if v.StartRes() != 120 {
		t.Errorf("wrapped ScrollBy: res %d", v.StartRes())
	}
	v.ScrollBy(0, 5)
	if v.StartRes() != 180 {
		t.Errorf("wrapped ScrollBy past end: res %d", v.StartRes())
	}
}

func TestScrollToReveal(t *testing.T) {
	v := New(100, 50, 10, 10)
	v.SyncAlignment(testAlignment(20, 40))

	if v.ScrollToReveal(5, 2) {
		t.Error("expected no scroll for a shown cell")
	}
	if !v.ScrollToReveal(15, 7) {
		t.Error("expected a scroll")
	}
	if v.StartRes() != 6 || v.StartSeq() != 3 {
		t.Errorf("res %d seq %d", v.StartRes(), v.StartSeq())
	}
	v.ScrollToReveal(0, 0)
	if v.StartRes() != 0 || v.StartSeq() != 0 {
		t.Errorf("res %d seq %d", v.StartRes(), v.StartSeq())
	}
}

func TestGeometrySnapshotIsIndependent(t *testing.T) {
	al := testAlignment(2, 10)
	v := New(100, 50, 10, 10)
	v.SyncAlignment(al)
	v.SetAnnotations(true, []int{10})

	g := v.Geometry()
	g.AnnotationHeights[0] = 99
	g.Hidden.Hide(0, 1)

	g2 := v.Geometry()
	if g2.AnnotationHeights[0] != 10 || g2.Hidden.HasHidden() {
		t.Error("geometry snapshot shares state with the viewport")
	}
	if g2.Height != 2 || g2.Width != 10 {
		t.Errorf("geometry size = %dx%d", g2.Width, g2.Height)
	}
}

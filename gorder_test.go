/*
 * gorder_test.go, part of gorder
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package order

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//a deterministic set of not-quite-aligned directors, so tests don't depend
//on the clock or on global rand state.
func testDirectors(n int, seed int64) *mat.Dense {
	r := rand.New(rand.NewSource(seed))
	v := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		//biased towards z so the frame has actual nematic order
		v.Set(i, 0, r.NormFloat64()*0.3)
		v.Set(i, 1, r.NormFloat64()*0.3)
		v.Set(i, 2, 1+r.NormFloat64()*0.3)
	}
	return v
}

func trace(Q *mat.SymDense) float64 {
	return Q.At(0, 0) + Q.At(1, 1) + Q.At(2, 2)
}

func TestQTensor(Te *testing.T) {
	v := testDirectors(5000, 42)
	if err := Normalize(v); err != nil {
		Te.Fatal(err)
	}
	Q, err := QTensor(v)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("Q tensor:", mat.Formatted(Q))
	if tr := math.Abs(trace(Q)); tr > 1e-8 {
		Te.Errorf("trace of Q should vanish, got %g", tr)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if Q.At(i, j) != Q.At(j, i) {
				Te.Errorf("Q not symmetric at %d,%d", i, j)
			}
		}
	}
	evals, d, err := GlobalDirector(Q)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(d[0]*d[0]+d[1]*d[1]+d[2]*d[2]-1) > 1e-10 {
		Te.Errorf("global director not unit: %v", d)
	}
	sum := evals[0] + evals[1] + evals[2]
	if math.Abs(sum) > 1e-8 {
		Te.Errorf("eigenvalues should add up to zero, got %g", sum)
	}
	if !(evals[0] <= evals[1] && evals[1] <= evals[2]) {
		Te.Errorf("eigenvalues not in ascending order: %v", evals)
	}
}

func TestParamRanges(Te *testing.T) {
	v := testDirectors(2000, 7)
	r, err := Frame(v)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Printf("P1 %5.3f P2 %5.3f P3 %5.3f P4 %5.3f\n", r.P1, r.P2, r.P3, r.P4)
	if r.P2 < -0.5 || r.P2 > 1.0 {
		Te.Errorf("P2 out of [-0.5,1]: %g", r.P2)
	}
	if r.P1 < -1 || r.P1 > 1 || r.P3 < -1 || r.P3 > 1 {
		Te.Errorf("P1/P3 out of [-1,1]: %g %g", r.P1, r.P3)
	}
}

//A frame where every molecule points along z. Q must come out as
//diag(-1/2,-1/2,1), the director along +-z, and all order parameters 1
//(P1 and P3 up to the axis sign).
func TestPerfectAlignment(Te *testing.T) {
	n := 100
	v := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		v.Set(i, 2, 1)
	}
	Q, err := QTensor(v)
	if err != nil {
		Te.Fatal(err)
	}
	want := []float64{-0.5, -0.5, 1}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			w := 0.0
			if i == j {
				w = want[i]
			}
			if math.Abs(Q.At(i, j)-w) > 1e-12 {
				Te.Errorf("Q_%d%d = %g, want %g", i, j, Q.At(i, j), w)
			}
		}
	}
	r, err := Frame(v)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(r.Director[0]) > 1e-10 || math.Abs(r.Director[1]) > 1e-10 || math.Abs(math.Abs(r.Director[2])-1) > 1e-10 {
		Te.Errorf("director should be (0,0,+-1), got %v", r.Director)
	}
	//the director is an axis, so P1 and P3 can only be pinned up to sign
	if math.Abs(math.Abs(r.P1)-1) > 1e-12 || math.Abs(r.P2-1) > 1e-12 || math.Abs(math.Abs(r.P3)-1) > 1e-12 || math.Abs(r.P4-1) > 1e-12 {
		Te.Errorf("perfectly aligned frame should give unit order parameters, got %v %v %v %v", r.P1, r.P2, r.P3, r.P4)
	}
	if r.P1 != r.P3 {
		Te.Errorf("P1 and P3 should flip together with the axis sign: %v %v", r.P1, r.P3)
	}
}

//The 6 face-centered unit vectors +-x,+-y,+-z give Q exactly zero, which
//makes the director meaningless: the frame must be flagged as degenerate,
//and P2 must vanish no matter which director the eigensolver hands back.
func TestIsotropic(Te *testing.T) {
	v := mat.NewDense(6, 3, []float64{
		1, 0, 0,
		-1, 0, 0,
		0, 1, 0,
		0, -1, 0,
		0, 0, 1,
		0, 0, -1,
	})
	Q, err := QTensor(v)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(Q.At(i, j)) > 1e-12 {
				Te.Errorf("isotropic frame should give Q = 0, got Q_%d%d = %g", i, j, Q.At(i, j))
			}
		}
	}
	r, err := Frame(v)
	if err != nil {
		Te.Fatal(err)
	}
	if !r.Degenerate {
		Te.Error("isotropic frame not flagged as degenerate")
	}
	if math.Abs(r.P2) > 1e-10 {
		Te.Errorf("isotropic frame should give P2 = 0, got %g", r.P2)
	}
}

//Reversing every director must leave Q, the eigenvalues, P2 and P4
//untouched (even powers of the cosine) while flipping P1 and P3.
func TestSignReversal(Te *testing.T) {
	v := testDirectors(500, 3)
	if err := Normalize(v); err != nil {
		Te.Fatal(err)
	}
	w := mat.DenseCopyOf(v)
	w.Scale(-1, w)
	rv, err := Frame(v)
	if err != nil {
		Te.Fatal(err)
	}
	rw, err := Frame(w)
	if err != nil {
		Te.Fatal(err)
	}
	if rv.P2 != rw.P2 || rv.P4 != rw.P4 {
		Te.Errorf("P2/P4 changed under director reversal: %v vs %v, %v vs %v", rv.P2, rw.P2, rv.P4, rw.P4)
	}
	if rv.P1 != -rw.P1 || rv.P3 != -rw.P3 {
		Te.Errorf("P1/P3 should flip sign under director reversal: %v vs %v, %v vs %v", rv.P1, rw.P1, rv.P3, rw.P3)
	}
	for i := 0; i < 3; i++ {
		if rv.Evals[i] != rw.Evals[i] {
			Te.Errorf("eigenvalues changed under director reversal: %v vs %v", rv.Evals, rw.Evals)
		}
	}
}

//A single molecule is trivially aligned with itself.
func TestSingleMolecule(Te *testing.T) {
	v := mat.NewDense(1, 3, []float64{1, 1, 0})
	r, err := Frame(v)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(math.Abs(r.P1)-1) > 1e-10 || math.Abs(r.P2-1) > 1e-10 || math.Abs(r.P4-1) > 1e-10 {
		Te.Errorf("single-molecule frame should be fully ordered, got %v %v %v %v", r.P1, r.P2, r.P3, r.P4)
	}
}

func TestBatch(Te *testing.T) {
	nframes := 37
	frames := make([]*mat.Dense, nframes)
	times := make([]float64, nframes)
	for i := range frames {
		frames[i] = testDirectors(300, int64(i))
		times[i] = float64(i) * 0.5
	}
	o := DefaultOptions()
	o.Cpus(4)
	S, err := Batch(frames, times, o)
	if err != nil {
		Te.Fatal(err)
	}
	if len(S.Data) != nframes || len(S.Skipped) != 0 {
		Te.Fatalf("expected %d clean frames, got %d computed and %d skipped", nframes, len(S.Data), len(S.Skipped))
	}
	for i, r := range S.Data {
		if r.Frame != i {
			Te.Fatalf("results out of order: position %d holds frame %d", i, r.Frame)
		}
		if r.Time != times[i] {
			Te.Errorf("frame %d got time %g, want %g", i, r.Time, times[i])
		}
	}
	fmt.Println(S.Summary())
}

//Re-running the pipeline on the same directors must reproduce the results
//bit for bit: there is no hidden randomness anywhere.
func TestDeterminism(Te *testing.T) {
	mkframes := func() []*mat.Dense {
		frames := make([]*mat.Dense, 10)
		for i := range frames {
			frames[i] = testDirectors(200, int64(100+i))
		}
		return frames
	}
	a, err := Batch(mkframes(), nil)
	if err != nil {
		Te.Fatal(err)
	}
	b, err := Batch(mkframes(), nil)
	if err != nil {
		Te.Fatal(err)
	}
	for i := range a.Data {
		if a.Data[i].P1 != b.Data[i].P1 || a.Data[i].P2 != b.Data[i].P2 ||
			a.Data[i].P3 != b.Data[i].P3 || a.Data[i].P4 != b.Data[i].P4 {
			Te.Fatalf("frame %d differs between identical runs", i)
		}
		for j := 0; j < 3; j++ {
			if a.Data[i].Director[j] != b.Data[i].Director[j] {
				Te.Fatalf("director of frame %d differs between identical runs", i)
			}
		}
	}
}

func TestFrameErrors(Te *testing.T) {
	//a zero-length director in the second frame, third molecule
	good := testDirectors(5, 1)
	bad := testDirectors(5, 2)
	bad.Set(2, 0, 0)
	bad.Set(2, 1, 0)
	bad.Set(2, 2, 0)
	S, err := Batch([]*mat.Dense{good, bad, testDirectors(5, 3)}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(S.Data) != 2 || len(S.Skipped) != 1 {
		Te.Fatalf("expected 2 computed and 1 skipped, got %d and %d", len(S.Data), len(S.Skipped))
	}
	deg, ok := S.Skipped[0].Reason.(*DegenerateDirectorError)
	if !ok {
		Te.Fatalf("wrong error type for the degenerate frame: %v", S.Skipped[0].Reason)
	}
	if deg.Frame() != 1 || deg.Molecule() != 2 {
		Te.Errorf("degenerate director reported at frame %d molecule %d, want 1 and 2", deg.Frame(), deg.Molecule())
	}
	//the same batch in fail-fast mode must abort instead
	o := DefaultOptions()
	o.FailFast(true)
	bad2 := testDirectors(5, 2)
	bad2.Set(2, 0, 0)
	bad2.Set(2, 1, 0)
	bad2.Set(2, 2, 0)
	_, err = Batch([]*mat.Dense{testDirectors(5, 1), bad2}, nil, o)
	if err == nil {
		Te.Error("fail-fast batch should have returned an error")
	}
}

//the harmless end-of-trajectory error of the in-memory test source below.
type testEOT struct{}

func (e testEOT) Error() string               { return "EOF" }
func (e testEOT) Decorate(string) []string    { return nil }
func (e testEOT) FileName() string            { return "" }
func (e testEOT) Format() string              { return "test" }
func (e testEOT) Critical() bool              { return false }
func (e testEOT) NormalLastFrameTermination() {}

//an in-memory director source, for testing the concurrent reader without
//dragging a file format into it.
type testConcTraj struct {
	frames []*mat.Dense
	pos    int
}

func (T *testConcTraj) Readable() bool { return T.pos < len(T.frames) }

func (T *testConcTraj) Len() int {
	r, _ := T.frames[0].Dims()
	return r
}

func (T *testConcTraj) NextConc(buf []*mat.Dense) ([]chan *mat.Dense, []float64, error) {
	chans := make([]chan *mat.Dense, 0, len(buf))
	times := make([]float64, 0, len(buf))
	for range buf {
		if T.pos >= len(T.frames) {
			return chans, times, testEOT{}
		}
		c := make(chan *mat.Dense)
		chans = append(chans, c)
		times = append(times, float64(T.pos)*0.5)
		go func(keep *mat.Dense, pipe chan *mat.Dense) {
			pipe <- keep
		}(T.frames[T.pos], c)
		T.pos++
	}
	return chans, times, nil
}

//Skip must thin the concurrent reader the same way it thins the sequential
//one: every nth frame processed, the rest read and dropped, the surviving
//results keeping their raw frame indices and times.
func TestConcTrajectorySkip(Te *testing.T) {
	frames := make([]*mat.Dense, 10)
	for i := range frames {
		frames[i] = testDirectors(50, int64(i))
	}
	o := DefaultOptions()
	o.Cpus(3)
	o.Skip(2)
	S, err := ConcTrajectory(&testConcTraj{frames: frames}, o)
	if err != nil {
		Te.Fatal(err)
	}
	if len(S.Data) != 5 {
		Te.Fatalf("10 frames with skip 2 should give 5 results, got %d", len(S.Data))
	}
	for i, r := range S.Data {
		if r.Frame != 2*i {
			Te.Errorf("position %d holds frame %d, want %d", i, r.Frame, 2*i)
		}
		if r.Time != float64(2*i)*0.5 {
			Te.Errorf("frame %d got time %g, want %g", r.Frame, r.Time, float64(2*i)*0.5)
		}
	}
}

//A series where every frame failed must say so, not print NaN statistics.
func TestEmptySummary(Te *testing.T) {
	bad := testDirectors(4, 11)
	bad.Set(0, 0, 0)
	bad.Set(0, 1, 0)
	bad.Set(0, 2, 0)
	S, err := Batch([]*mat.Dense{bad}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(S.Data) != 0 || len(S.Skipped) != 1 {
		Te.Fatalf("expected 0 computed and 1 skipped, got %d and %d", len(S.Data), len(S.Skipped))
	}
	sum := S.Summary()
	if strings.Contains(sum, "NaN") {
		Te.Errorf("summary of an empty series reports NaN:\n%s", sum)
	}
	if !strings.Contains(sum, "no frames computed") {
		Te.Errorf("summary of an empty series should say so, got:\n%s", sum)
	}
}

func TestBatchContract(Te *testing.T) {
	if _, err := Batch(nil, nil); err == nil {
		Te.Error("empty batch should be rejected")
	} else if _, ok := err.(*EmptyTrajectoryError); !ok {
		Te.Errorf("wrong error for empty batch: %v", err)
	}
	//inconsistent molecule counts are rejected before any frame is touched
	frames := []*mat.Dense{testDirectors(10, 1), testDirectors(11, 2)}
	_, err := Batch(frames, nil)
	sm, ok := err.(*ShapeMismatchError)
	if !ok {
		Te.Fatalf("wrong error for mismatched frames: %v", err)
	}
	if sm.Frame() != 1 {
		Te.Errorf("mismatch reported at frame %d, want 1", sm.Frame())
	}
}

package interp

// edge evaluates the continuation of an interpolant beyond one end of its span
type edge interface {
	eval(x float64) float64
}

// constantEdge clamps to the endpoint value
type constantEdge float64

func (c constantEdge) eval(float64) float64 {
	return float64(c)
}

// lineEdge continues the slope of the outermost segment
type lineEdge struct {
	x0, y0 float64
	slope  float64
}

func linearEdge(x0, y0, x1, y1 float64) lineEdge {
	return lineEdge{x0: x0, y0: y0, slope: (y1 - y0) / (x1 - x0)}
}

func (l lineEdge) eval(x float64) float64 {
	return l.y0 + (x-l.x0)*l.slope
}

// polyEdge extends the cubic polynomial of the outermost spline segment.
// The polynomial is recovered from four samples of the segment, which
// reproduces a cubic exactly, and evaluated in Lagrange form.
type polyEdge struct {
	nodes [4]float64
	vals  [4]float64
}

type predictor interface {
	Predict(x float64) float64
}

func cubicEdge(p predictor, a, b float64) polyEdge {
	var e polyEdge
	h := (b - a) / 3
	for i := range e.nodes {
		x := a + h*float64(i)
		if i == 3 {
			x = b
		}
		e.nodes[i] = x
		e.vals[i] = p.Predict(x)
	}
	return e
}

func (e polyEdge) eval(x float64) float64 {
	var sum float64
	for i := range e.nodes {
		term := e.vals[i]
		for j := range e.nodes {
			if j == i {
				continue
			}
			term *= (x - e.nodes[j]) / (e.nodes[i] - e.nodes[j])
		}
		sum += term
	}
	return sum
}

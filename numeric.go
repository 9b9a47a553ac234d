// numeric.go — integer/rational arithmetic and comparison.
//
// Rationals are never reduced to lowest terms: each operation stores exactly
// the numerator/denominator its formula produces. The single collapse back
// to an integer is exact integer division. Mixed integer⊕rational addition
// and subtraction use the simplified rule (n*den ± num)/den rather than a
// full cross-multiply. The host's int64 is the authoritative integer width;
// expt detects overflow and reports an error instead of wrapping.
package scm

func isNumeric(v Value) bool { return v.Tag == VTInteger || v.Tag == VTRational }

func addValues(v1, v2 Value) Value {
	switch {
	case v1.Tag == VTInteger && v2.Tag == VTInteger:
		return Int(v1.Data.(int64) + v2.Data.(int64))
	case v1.Tag == VTRational && v2.Tag == VTRational:
		r1, r2 := ratVal(v1), ratVal(v2)
		return Rat(r1.Num*r2.Den+r2.Num*r1.Den, r1.Den*r2.Den)
	case v1.Tag == VTInteger && v2.Tag == VTRational:
		n1, r2 := v1.Data.(int64), ratVal(v2)
		return Rat(n1*r2.Den+r2.Num, r2.Den)
	case v1.Tag == VTRational && v2.Tag == VTInteger:
		r1, n2 := ratVal(v1), v2.Data.(int64)
		return Rat(r1.Num+n2*r1.Den, r1.Den)
	}
	fail("cannot add non-numeric values")
	return Value{}
}

func subtractValues(v1, v2 Value) Value {
	switch {
	case v1.Tag == VTInteger && v2.Tag == VTInteger:
		return Int(v1.Data.(int64) - v2.Data.(int64))
	case v1.Tag == VTRational && v2.Tag == VTRational:
		r1, r2 := ratVal(v1), ratVal(v2)
		return Rat(r1.Num*r2.Den-r2.Num*r1.Den, r1.Den*r2.Den)
	case v1.Tag == VTInteger && v2.Tag == VTRational:
		n1, r2 := v1.Data.(int64), ratVal(v2)
		return Rat(n1*r2.Den-r2.Num, r2.Den)
	case v1.Tag == VTRational && v2.Tag == VTInteger:
		r1, n2 := ratVal(v1), v2.Data.(int64)
		return Rat(r1.Num-n2*r1.Den, r1.Den)
	}
	fail("cannot subtract non-numeric values")
	return Value{}
}

func multiplyValues(v1, v2 Value) Value {
	switch {
	case v1.Tag == VTInteger && v2.Tag == VTInteger:
		return Int(v1.Data.(int64) * v2.Data.(int64))
	case v1.Tag == VTRational && v2.Tag == VTRational:
		r1, r2 := ratVal(v1), ratVal(v2)
		return Rat(r1.Num*r2.Num, r1.Den*r2.Den)
	case v1.Tag == VTInteger && v2.Tag == VTRational:
		n1, r2 := v1.Data.(int64), ratVal(v2)
		return Rat(n1*r2.Num, r2.Den)
	case v1.Tag == VTRational && v2.Tag == VTInteger:
		r1, n2 := ratVal(v1), v2.Data.(int64)
		return Rat(r1.Num*n2, r1.Den)
	}
	fail("cannot multiply non-numeric values")
	return Value{}
}

func divideValues(v1, v2 Value) Value {
	switch {
	case v1.Tag == VTInteger && v2.Tag == VTInteger:
		n1, n2 := v1.Data.(int64), v2.Data.(int64)
		if n2 == 0 {
			fail("division by zero")
		}
		if n1%n2 == 0 {
			return Int(n1 / n2)
		}
		return Rat(n1, n2)
	case v1.Tag == VTRational && v2.Tag == VTRational:
		r1, r2 := ratVal(v1), ratVal(v2)
		if r2.Num == 0 {
			fail("division by zero")
		}
		return Rat(r1.Num*r2.Den, r1.Den*r2.Num)
	case v1.Tag == VTInteger && v2.Tag == VTRational:
		n1, r2 := v1.Data.(int64), ratVal(v2)
		if r2.Num == 0 {
			fail("division by zero")
		}
		return Rat(n1*r2.Den, r2.Num)
	case v1.Tag == VTRational && v2.Tag == VTInteger:
		r1, n2 := ratVal(v1), v2.Data.(int64)
		if n2 == 0 {
			fail("division by zero")
		}
		return Rat(r1.Num, r1.Den*n2)
	}
	fail("cannot divide non-numeric values")
	return Value{}
}

func negateValue(v Value) Value {
	switch v.Tag {
	case VTInteger:
		return Int(-v.Data.(int64))
	case VTRational:
		r := ratVal(v)
		return Rat(-r.Num, r.Den)
	}
	fail("cannot negate non-numeric value")
	return Value{}
}

func reciprocalValue(v Value) Value {
	switch v.Tag {
	case VTInteger:
		n := v.Data.(int64)
		if n == 0 {
			fail("division by zero")
		}
		return Rat(1, n)
	case VTRational:
		r := ratVal(v)
		if r.Num == 0 {
			fail("division by zero")
		}
		return Rat(r.Den, r.Num)
	}
	fail("cannot compute reciprocal of non-numeric value")
	return Value{}
}

func moduloValues(v1, v2 Value) Value {
	if v1.Tag != VTInteger || v2.Tag != VTInteger {
		fail("modulo is only defined for integers")
	}
	dividend, divisor := v1.Data.(int64), v2.Data.(int64)
	if divisor == 0 {
		fail("division by zero")
	}
	return Int(dividend % divisor)
}

// exptValues raises an integer base to a non-negative integer exponent by
// binary exponentiation, failing on overflow rather than wrapping.
func exptValues(v1, v2 Value) Value {
	if v1.Tag != VTInteger || v2.Tag != VTInteger {
		fail("expt is only defined for integers")
	}
	base, exp := v1.Data.(int64), v2.Data.(int64)
	if exp < 0 {
		fail("negative exponent not supported for integers")
	}
	if base == 0 && exp == 0 {
		fail("0^0 is undefined")
	}

	result := int64(1)
	b := base
	for exp > 0 {
		if exp%2 == 1 {
			r, ok := checkedMul(result, b)
			if !ok {
				fail("integer overflow in expt")
			}
			result = r
		}
		exp /= 2
		if exp > 0 {
			sq, ok := checkedMul(b, b)
			if !ok {
				fail("integer overflow in expt")
			}
			b = sq
		}
	}
	return Int(result)
}

// checkedMul multiplies and reports whether the product fit in int64.
func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// compareNumeric orders two numeric values via cross-multiplied numerator
// comparison; no reduction is needed since only the sign matters.
func compareNumeric(v1, v2 Value) int {
	switch {
	case v1.Tag == VTInteger && v2.Tag == VTInteger:
		return cmpInt64(v1.Data.(int64), v2.Data.(int64))
	case v1.Tag == VTRational && v2.Tag == VTInteger:
		r1, n2 := ratVal(v1), v2.Data.(int64)
		return cmpInt64(r1.Num, n2*r1.Den)
	case v1.Tag == VTInteger && v2.Tag == VTRational:
		n1, r2 := v1.Data.(int64), ratVal(v2)
		return cmpInt64(n1*r2.Den, r2.Num)
	case v1.Tag == VTRational && v2.Tag == VTRational:
		r1, r2 := ratVal(v1), ratVal(v2)
		return cmpInt64(r1.Num*r2.Den, r2.Num*r1.Den)
	}
	fail("cannot compare non-numeric values")
	return 0
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

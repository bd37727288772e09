package simd

// Number is the set of element types the kernels operate on.
type Number interface {
	~float32 | ~float64 | ~int | ~int32 | ~int64
}

// VecAdd performs dst += src
func VecAdd[T Number](dst, src []T) {
	// Unrolled loop for better pipelining
	i := 0
	for ; i <= len(dst)-4; i += 4 {
		dst[i] += src[i]
		dst[i+1] += src[i+1]
		dst[i+2] += src[i+2]
		dst[i+3] += src[i+3]
	}
	// Handle remainder
	for ; i < len(dst); i++ {
		dst[i] += src[i]
	}
}

// VecAddScaled performs dst += src * scale
func VecAddScaled[T Number](dst, src []T, scale T) {
	i := 0
	for ; i <= len(dst)-4; i += 4 {
		dst[i] += src[i] * scale
		dst[i+1] += src[i+1] * scale
		dst[i+2] += src[i+2] * scale
		dst[i+3] += src[i+3] * scale
	}
	for ; i < len(dst); i++ {
		dst[i] += src[i] * scale
	}
}

// Axpby performs dst = alpha*x + beta*y. dst may alias x or y.
func Axpby[T Number](dst, x, y []T, alpha, beta T) {
	i := 0
	for ; i <= len(dst)-4; i += 4 {
		dst[i] = alpha*x[i] + beta*y[i]
		dst[i+1] = alpha*x[i+1] + beta*y[i+1]
		dst[i+2] = alpha*x[i+2] + beta*y[i+2]
		dst[i+3] = alpha*x[i+3] + beta*y[i+3]
	}
	for ; i < len(dst); i++ {
		dst[i] = alpha*x[i] + beta*y[i]
	}
}

// DotProduct computes the dot product of two vectors
func DotProduct[T Number](a, b []T) T {
	var sum T
	i := 0
	for ; i <= len(a)-4; i += 4 {
		sum += a[i] * b[i]
		sum += a[i+1] * b[i+1]
		sum += a[i+2] * b[i+2]
		sum += a[i+3] * b[i+3]
	}
	for ; i < len(a); i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// GatherDot computes sum(vals[k] * x[idx[k]]), the inner loop of a
// compressed row times a dense vector.
func GatherDot[T Number](vals []T, idx []int, x []T) T {
	var sum T
	k := 0
	for ; k <= len(vals)-4; k += 4 {
		sum += vals[k] * x[idx[k]]
		sum += vals[k+1] * x[idx[k+1]]
		sum += vals[k+2] * x[idx[k+2]]
		sum += vals[k+3] * x[idx[k+3]]
	}
	for ; k < len(vals); k++ {
		sum += vals[k] * x[idx[k]]
	}
	return sum
}

// Sum returns the sum of all elements.
func Sum[T Number](a []T) T {
	var s0, s1, s2, s3 T
	i := 0
	for ; i <= len(a)-4; i += 4 {
		s0 += a[i]
		s1 += a[i+1]
		s2 += a[i+2]
		s3 += a[i+3]
	}
	for ; i < len(a); i++ {
		s0 += a[i]
	}
	return s0 + s1 + s2 + s3
}

// MatVecMul performs dst = mat * vec where mat is rows x cols row-major
func MatVecMul[T Number](dst, mat, vec []T, rows, cols int) {
	for i := 0; i < rows; i++ {
		rowStart := i * cols
		dst[i] = DotProduct(mat[rowStart:rowStart+cols], vec)
	}
}

// MatVecMulAdd performs dst += mat * vec where mat is rows x cols row-major
func MatVecMulAdd[T Number](dst, mat, vec []T, rows, cols int) {
	for i := 0; i < rows; i++ {
		rowStart := i * cols
		dst[i] += DotProduct(mat[rowStart:rowStart+cols], vec)
	}
}

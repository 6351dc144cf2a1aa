package rangeproof

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/pkg/errors"

	ristretto "github.com/bwesterb/go-ristretto"

	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/fiatshamir"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/innerproduct"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/pedersen"
	"github.com/umbra-network/umbra-go/pkg/crypto/rangeproof/vector"
)

// N is the number of bits in the range,
// so a committed value must lie in [0, 2^N)
const N = 64

// maxM is the maximum number of values allowed per proof
const maxM = 16

// genData seeds the generator vectors. The verifier must derive the
// exact same bases, so this value is fixed for the protocol.
var genData = []byte("umbra.BulletProof.vec1")

var (
	// ErrValueOutOfRange is returned when a value to be proven
	// does not fit in N bits
	ErrValueOutOfRange = errors.New("value is out of range")
	// ErrProofSize is returned when an encoded proof does not have
	// the expected length
	ErrProofSize = errors.New("proof size mismatch")
)

// Proof is the constructed BulletProof
type Proof struct {
	V  []pedersen.Commitment // Commitments to the values, one per value
	A  ristretto.Point       // Curve point 32 bytes
	S  ristretto.Point       // Curve point 32 bytes
	T1 ristretto.Point       // Curve point 32 bytes
	T2 ristretto.Point       // Curve point 32 bytes

	taux ristretto.Scalar
	mu   ristretto.Scalar
	t    ristretto.Scalar

	IPProof *innerproduct.Proof
}

// Prove will take a set of scalars and prove that each is in [0, 2^N),
// drawing a fresh blinding factor for every commitment
func Prove(v []ristretto.Scalar, debug bool) (Proof, error) {

	blinders := make([]ristretto.Scalar, len(v))
	for i := range blinders {
		blinders[i].Rand()
	}

	return ProveWithBlinders(v, blinders, debug)
}

// ProveWithBlinders proves that each value in v lies in [0, 2^N), committing
// to v[i] with the caller supplied blinding factor blinders[i]. Callers that
// need to tie the commitments to another proof use this entry point.
func ProveWithBlinders(v, blinders []ristretto.Scalar, debug bool) (Proof, error) {

	if len(v) < 1 {
		return Proof{}, errors.New("length of slice v is zero")
	}

	if len(v) != len(blinders) {
		return Proof{}, errors.New("each value needs exactly one blinding factor")
	}

	m := len(v)
	if m > maxM {
		return Proof{}, errors.Errorf("maximum amount of values must be less than %d", maxM)
	}

	for i := range v {
		if v[i].BigInt().BitLen() > N {
			return Proof{}, ErrValueOutOfRange
		}
	}

	// Pad zero values until we have a power of two
	padAmount := innerproduct.DiffNextPow2(uint32(m))
	m = m + int(padAmount)
	for i := uint32(0); i < padAmount; i++ {
		var zeroScalar ristretto.Scalar
		zeroScalar.SetZero()
		v = append(v, zeroScalar)

		var padBlind ristretto.Scalar
		padBlind.Rand()
		blinders = append(blinders, padBlind)
	}

	// commitment to values v
	Vs := make([]pedersen.Commitment, 0, m)
	ped := pedersen.New(genData)
	ped.BaseVector.Compute(uint32(N * m))

	// Hash for Fiat-Shamir
	hs := fiatshamir.HashCacher{Cache: []byte{}}

	for i := range v {
		V := ped.CommitToScalarWithBlind(v[i], blinders[i])

		Vs = append(Vs, V)

		// update Fiat-Shamir
		hs.Append(V.Value.Bytes())
	}

	aLs := make([]ristretto.Scalar, 0, N*m)
	aRs := make([]ristretto.Scalar, 0, N*m)

	for i := range v {
		// compute bit commitments aL and aR to v
		BC := BitCommit(v[i].BigInt())
		aLs = append(aLs, BC.AL...)
		aRs = append(aRs, BC.AR...)
	}

	// Compute A
	A := computeA(ped, aLs, aRs)

	// Compute S
	S, sL, sR := computeS(ped, N*m)

	// update Fiat-Shamir
	hs.Append(A.Value.Bytes(), S.Value.Bytes())

	// compute y and z
	y, z := computeYAndZ(hs)

	// compute polynomial
	poly, err := computePoly(aLs, aRs, sL, sR, y, z)
	if err != nil {
		return Proof{}, errors.Wrap(err, "[Prove] - poly")
	}

	// Compute T1 and T2
	T1 := ped.CommitToScalar(poly.t1)
	T2 := ped.CommitToScalar(poly.t2)

	// update Fiat-Shamir
	hs.Append(z.Bytes(), T1.Value.Bytes(), T2.Value.Bytes())

	// compute x
	x := computeX(hs)
	// compute taux which is just the polynomial for the blinding factors at a point x
	taux := computeTaux(x, z, T1.BlindingFactor, T2.BlindingFactor, Vs)
	// compute mu
	mu := computeMu(x, A.BlindingFactor, S.BlindingFactor)

	// compute l dot r
	l, err := poly.computeL(x)
	if err != nil {
		return Proof{}, errors.Wrap(err, "[Prove] - l")
	}
	r, err := poly.computeR(x)
	if err != nil {
		return Proof{}, errors.Wrap(err, "[Prove] - r")
	}
	t, err := vector.InnerProduct(l, r)
	if err != nil {
		return Proof{}, errors.Wrap(err, "[Prove] - t")
	}

	// START DEBUG
	if debug {
		err := debugProve(x, y, z, v, l, r, aLs, aRs, sL, sR)
		if err != nil {
			return Proof{}, errors.Wrap(err, "[Prove] - debugProve")
		}

		// DEBUG T0
		testT0, err := debugT0(aLs, aRs, y, z)
		if err != nil {
			return Proof{}, errors.Wrap(err, "[Prove] - testT0")
		}
		if !testT0.Equals(&poly.t0) {
			return Proof{}, errors.New("[Prove]: Test t0 value does not match the value calculated from the polynomial")
		}

		polyt0 := poly.computeT0(y, z, v, N, uint32(m))
		if !polyt0.Equals(&poly.t0) {
			return Proof{}, errors.New("[Prove]: t0 value from delta function, does not match the polynomial t0 value")
		}

		tPoly := poly.eval(x)
		if !t.Equals(&tPoly) {
			return Proof{}, errors.New("[Prove]: t value computed from the t-poly does not match the t value computed from the inner product of l and r")
		}
	}
	// End DEBUG

	// check if any challenge scalars are zero
	if x.IsNonZeroI() == 0 || y.IsNonZeroI() == 0 || z.IsNonZeroI() == 0 {
		return Proof{}, errors.New("[Prove] - one of the challenge scalars, x, y, or z was equal to zero. Generate proof again")
	}

	hs.Append(x.Bytes(), taux.Bytes(), mu.Bytes(), t.Bytes())

	// calculate inner product proof
	Q := ristretto.Point{}
	w := hs.Derive()
	Q.ScalarMult(&ped.BasePoint, &w)

	var yinv ristretto.Scalar
	yinv.Inverse(&y)
	Hpf := vector.ScalarPowers(yinv, uint32(N*m))

	genData2 := make([]byte, len(genData))
	copy(genData2, genData)
	genData2 = append(genData2, uint8(1))
	ped2 := pedersen.New(genData2)
	ped2.BaseVector.Compute(uint32(N * m))

	H := ped2.BaseVector.Bases
	G := ped.BaseVector.Bases

	ip, err := innerproduct.Generate(G, H, l, r, Hpf, Q)
	if err != nil {
		return Proof{}, errors.Wrap(err, "[Prove] - ipproof")
	}

	return Proof{
		V:       Vs,
		A:       A.Value,
		S:       S.Value,
		T1:      T1.Value,
		T2:      T2.Value,
		t:       t,
		taux:    taux,
		mu:      mu,
		IPProof: ip,
	}, nil
}

// A = kH + aL*G + aR*H
func computeA(ped *pedersen.Pedersen, aLs, aRs []ristretto.Scalar) pedersen.Commitment {

	cA := ped.CommitToVectors(aLs, aRs)

	return cA
}

// S = kH + sL*G + sR*H
func computeS(ped *pedersen.Pedersen, nm int) (pedersen.Commitment, []ristretto.Scalar, []ristretto.Scalar) {

	sL, sR := make([]ristretto.Scalar, nm), make([]ristretto.Scalar, nm)
	for i := 0; i < nm; i++ {
		var randA ristretto.Scalar
		randA.Rand()
		sL[i] = randA

		var randB ristretto.Scalar
		randB.Rand()
		sR[i] = randB
	}

	cS := ped.CommitToVectors(sL, sR)

	return cS, sL, sR
}

func computeYAndZ(hs fiatshamir.HashCacher) (ristretto.Scalar, ristretto.Scalar) {

	var y ristretto.Scalar
	y.Derive(hs.Result())

	var z ristretto.Scalar
	z.Derive(y.Bytes())

	return y, z
}

func computeX(hs fiatshamir.HashCacher) ristretto.Scalar {
	var x ristretto.Scalar
	x.Derive(hs.Result())
	return x
}

// compute polynomial for blinding factors
// N.B. tau1 means tau superscript 1
// taux = t1Blind * x + t2Blind * x^2 + (sum(z^n+1 * vBlind[n-1])) from n = 1 to n = m
func computeTaux(x, z, t1Blind, t2Blind ristretto.Scalar, vBlinds []pedersen.Commitment) ristretto.Scalar {
	tau1X := t1Blind.Mul(&x, &t1Blind)

	var xsq ristretto.Scalar
	xsq.Square(&x)

	tau2Xsq := t2Blind.Mul(&xsq, &t2Blind)

	var zN ristretto.Scalar
	zN.Square(&z) // start at zSq

	var zNBlindSum ristretto.Scalar
	zNBlindSum.SetZero()

	for i := range vBlinds {
		zNBlindSum.MulAdd(&zN, &vBlinds[i].BlindingFactor, &zNBlindSum)
		zN.Mul(&zN, &z)
	}

	var res ristretto.Scalar
	res.Add(tau1X, tau2Xsq)
	res.Add(&res, &zNBlindSum)

	return res
}

// alpha is the blinding factor for A
// rho is the blinding factor for S
// mu = alpha + rho * x
func computeMu(x, alpha, rho ristretto.Scalar) ristretto.Scalar {

	var mu ristretto.Scalar

	mu.MulAdd(&rho, &x, &alpha)

	return mu
}

// computeHprime will take a slice of points H, with a scalar y
// and return a slice of points Hprime, such that Hprime = y^-n * H
func computeHprime(H []ristretto.Point, y ristretto.Scalar) []ristretto.Point {
	Hprimes := make([]ristretto.Point, len(H))

	var yInv ristretto.Scalar
	yInv.Inverse(&y)

	invYPows := vector.ScalarPowers(yInv, uint32(len(H)))

	for i, p := range H {
		var hprime ristretto.Point
		hprime.ScalarMult(&p, &invYPows[i])

		Hprimes[i] = hprime
	}

	return Hprimes
}

// Verify takes a bullet proof and returns true only if the proof was valid
func Verify(p Proof) (bool, error) {

	m := len(p.V)
	if m == 0 {
		return false, errors.New("proof carries no commitments")
	}
	if m > maxM {
		return false, errors.Errorf("maximum amount of values must be less than %d", maxM)
	}
	if p.IPProof == nil {
		return false, errors.New("proof carries no inner product argument")
	}

	// The inner product argument halves N*m once per round
	nm := 1 << uint(len(p.IPProof.L))
	if nm != N*m {
		return false, ErrProofSize
	}

	ped := pedersen.New(genData)
	ped.BaseVector.Compute(uint32(N * m))

	genData2 := make([]byte, len(genData))
	copy(genData2, genData)
	genData2 = append(genData2, uint8(1))

	ped2 := pedersen.New(genData2)
	ped2.BaseVector.Compute(uint32(N * m))

	G := ped.BaseVector.Bases
	H := ped2.BaseVector.Bases

	// Reconstruct the challenges
	hs := fiatshamir.HashCacher{Cache: []byte{}}
	for _, V := range p.V {
		hs.Append(V.Value.Bytes())
	}

	hs.Append(p.A.Bytes(), p.S.Bytes())
	y, z := computeYAndZ(hs)
	hs.Append(z.Bytes(), p.T1.Bytes(), p.T2.Bytes())
	x := computeX(hs)
	hs.Append(x.Bytes(), p.taux.Bytes(), p.mu.Bytes(), p.t.Bytes())
	w := hs.Derive()

	return megacheckWithC(p.IPProof, p.mu, x, y, z, p.t, p.taux, w, p.A, ped.BasePoint, ped.BlindPoint, p.S, p.T1, p.T2, G, H, p.V)
}

func megacheckWithC(ipproof *innerproduct.Proof, mu, x, y, z, t, taux, w ristretto.Scalar, A, G, H, S, T1, T2 ristretto.Point, GVec, HVec []ristretto.Point, V []pedersen.Commitment) (bool, error) {

	m := len(V)
	nm := len(GVec)

	var c1, c2, c3, c4, c5, c6, c7, c8, c9, c10, c11 ristretto.Point

	var c ristretto.Scalar
	c.Rand()

	uSq, uInvSq, s := ipproof.VerifScalars()
	sInv := make([]ristretto.Scalar, len(s))
	copy(sInv, s)

	// reverse s
	for i, j := 0, len(sInv)-1; i < j; i, j = i+1, j-1 {
		sInv[i], sInv[j] = sInv[j], sInv[i]
	}

	// g vector scalars : as + z points : G
	as := vector.MulScalar(s, ipproof.A)
	g := vector.AddScalar(as, z)
	g = vector.MulScalar(g, c)

	c1, err := vector.Exp(g, GVec, nm, 1)
	if err != nil {
		return false, err
	}

	// h vector scalars : yinv Had (bsInv - zMTwoN) - z points : H
	bs := vector.MulScalar(sInv, ipproof.B)
	zAnd2 := sumZMTwoN(z, uint32(m))
	h, err := vector.Sub(bs, zAnd2)
	if err != nil {
		return false, errors.Wrap(err, "[h1]")
	}

	var yinv ristretto.Scalar
	yinv.Inverse(&y)
	Hpf := vector.ScalarPowers(yinv, uint32(nm))

	h, err = vector.Hadamard(h, Hpf)
	if err != nil {
		return false, errors.Wrap(err, "[h2]")
	}
	h = vector.SubScalar(h, z)
	h = vector.MulScalar(h, c)

	c2, err = vector.Exp(h, HVec, nm, 1)
	if err != nil {
		return false, err
	}

	// G basepoint gbp : (c * w(ab-t)) + t-D(y,z) point : G
	delta := computeDelta(y, z, N, uint32(m))
	var tMinusDelta ristretto.Scalar
	tMinusDelta.Sub(&t, &delta)

	var abMinusT ristretto.Scalar
	abMinusT.Mul(&ipproof.A, &ipproof.B)
	abMinusT.Sub(&abMinusT, &t)

	var cw ristretto.Scalar
	cw.Mul(&c, &w)

	var gBP ristretto.Scalar
	gBP.MulAdd(&cw, &abMinusT, &tMinusDelta)

	c3.ScalarMult(&G, &gBP)

	// H basepoint hbp : c * mu + taux point : H
	var cmu ristretto.Scalar
	cmu.Mul(&mu, &c)

	var hBP ristretto.Scalar
	hBP.Add(&cmu, &taux)

	c4.ScalarMult(&H, &hBP)

	// scalar : c point : A
	c5.ScalarMult(&A, &c)

	// scalar : cx point : S
	var cx ristretto.Scalar
	cx.Mul(&c, &x)
	c6.ScalarMult(&S, &cx)

	// scalar : uSq challenges points : Lj
	c7, err = vector.Exp(uSq, ipproof.L, len(ipproof.L), 1)
	if err != nil {
		return false, err
	}
	c7.PublicScalarMult(&c7, &c)

	// scalar : uInvSq challenges points : Rj
	c8, err = vector.Exp(uInvSq, ipproof.R, len(ipproof.R), 1)
	if err != nil {
		return false, err
	}
	c8.PublicScalarMult(&c8, &c)

	// scalar : z_j+2 points : Vj
	zM := vector.ScalarPowers(z, uint32(m))
	var zSq ristretto.Scalar
	zSq.Square(&z)
	zM = vector.MulScalar(zM, zSq)
	c9.SetZero()
	for i := range zM {
		var temp ristretto.Point
		temp.PublicScalarMult(&V[i].Value, &zM[i])
		c9.Add(&c9, &temp)
	}

	// scalar : x point : T1
	c10.PublicScalarMult(&T1, &x)

	// scalar : xSq point : T2
	var xSq ristretto.Scalar
	xSq.Square(&x)
	c11.PublicScalarMult(&T2, &xSq)

	var sum ristretto.Point
	sum.SetZero()
	sum.Add(&c1, &c2)
	sum.Add(&sum, &c3)
	sum.Add(&sum, &c4)
	sum.Sub(&sum, &c5)
	sum.Sub(&sum, &c6)
	sum.Sub(&sum, &c7)
	sum.Sub(&sum, &c8)
	sum.Sub(&sum, &c9)
	sum.Sub(&sum, &c10)
	sum.Sub(&sum, &c11)

	var zero ristretto.Point
	zero.SetZero()

	ok := zero.Equals(&sum)
	if !ok {
		return false, errors.New("megacheck failed")
	}

	return true, nil
}

// Size returns the serialized length of a proof over m values,
// excluding the value commitments
func Size(m int) int {
	nm := N * m
	lg := bits.TrailingZeros32(uint32(nm))
	return 9*32 + lg*64
}

// Encode the proof to w. If includeCommits is set the value
// commitments are written first, length prefixed.
func (p *Proof) Encode(w io.Writer, includeCommits bool) error {

	if includeCommits {
		err := pedersen.EncodeCommitments(w, p.V)
		if err != nil {
			return err
		}
	}

	err := binary.Write(w, binary.BigEndian, p.A.Bytes())
	if err != nil {
		return err
	}
	err = binary.Write(w, binary.BigEndian, p.S.Bytes())
	if err != nil {
		return err
	}
	err = binary.Write(w, binary.BigEndian, p.T1.Bytes())
	if err != nil {
		return err
	}
	err = binary.Write(w, binary.BigEndian, p.T2.Bytes())
	if err != nil {
		return err
	}
	err = binary.Write(w, binary.BigEndian, p.taux.Bytes())
	if err != nil {
		return err
	}
	err = binary.Write(w, binary.BigEndian, p.mu.Bytes())
	if err != nil {
		return err
	}
	err = binary.Write(w, binary.BigEndian, p.t.Bytes())
	if err != nil {
		return err
	}
	return p.IPProof.Encode(w)
}

// Decode the proof from r. If includeCommits is set the value
// commitments are read first.
func (p *Proof) Decode(r io.Reader, includeCommits bool) error {

	if p == nil {
		return errors.New("struct is nil")
	}

	if includeCommits {
		comms, err := pedersen.DecodeCommitments(r)
		if err != nil {
			return err
		}
		p.V = comms
	}

	err := readerToPoint(r, &p.A)
	if err != nil {
		return err
	}
	err = readerToPoint(r, &p.S)
	if err != nil {
		return err
	}
	err = readerToPoint(r, &p.T1)
	if err != nil {
		return err
	}
	err = readerToPoint(r, &p.T2)
	if err != nil {
		return err
	}
	err = readerToScalar(r, &p.taux)
	if err != nil {
		return err
	}
	err = readerToScalar(r, &p.mu)
	if err != nil {
		return err
	}
	err = readerToScalar(r, &p.t)
	if err != nil {
		return err
	}
	p.IPProof = &innerproduct.Proof{}
	return p.IPProof.Decode(r)
}

// Equals returns true if two proofs are identical
func (p *Proof) Equals(other Proof, includeCommits bool) bool {
	if len(p.V) != len(other.V) && includeCommits {
		return false
	}

	for i := range p.V {
		ok := p.V[i].EqualValue(other.V[i])
		if !ok {
			return ok
		}
	}

	ok := p.A.Equals(&other.A)
	if !ok {
		return ok
	}
	ok = p.S.Equals(&other.S)
	if !ok {
		return ok
	}
	ok = p.T1.Equals(&other.T1)
	if !ok {
		return ok
	}
	ok = p.T2.Equals(&other.T2)
	if !ok {
		return ok
	}
	ok = p.taux.Equals(&other.taux)
	if !ok {
		return ok
	}
	ok = p.mu.Equals(&other.mu)
	if !ok {
		return ok
	}
	ok = p.t.Equals(&other.t)
	if !ok {
		return ok
	}
	return p.IPProof.Equals(*other.IPProof)
}

func readerToPoint(r io.Reader, p *ristretto.Point) error {
	var x [32]byte
	err := binary.Read(r, binary.BigEndian, &x)
	if err != nil {
		return err
	}
	ok := p.SetBytes(&x)
	if !ok {
		return errors.New("point not encodable")
	}
	return nil
}

func readerToScalar(r io.Reader, s *ristretto.Scalar) error {
	var x [32]byte
	err := binary.Read(r, binary.BigEndian, &x)
	if err != nil {
		return err
	}
	s.SetBytes(&x)
	// SetBytes reduces mod the group order, so a round trip detects
	// non-canonical encodings
	if !bytes.Equal(s.Bytes(), x[:]) {
		return errors.New("scalar not canonical")
	}
	return nil
}

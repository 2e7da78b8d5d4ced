package appointment

import "time"

// Overlaps é o predicado único de interseção usado tanto pela checagem de
// conflito quanto pela grade de horários. Intervalos são meio-abertos:
// [aStart, aEnd) cruza [bStart, bEnd) sse aStart < bEnd && bStart < aEnd.
// Intervalos que apenas se tocam (aEnd == bStart) não conflitam.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// StartsWithin: início de a dentro de [bStart, bEnd).
func StartsWithin(aStart, bStart, bEnd time.Time) bool {
	return !aStart.Before(bStart) && aStart.Before(bEnd)
}

// EndsWithin: fim de a dentro de (bStart, bEnd].
func EndsWithin(aEnd, bStart, bEnd time.Time) bool {
	return aEnd.After(bStart) && !aEnd.After(bEnd)
}

// Contains: [bStart, bEnd] inteiramente dentro de [aStart, aEnd].
func Contains(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !bStart.Before(aStart) && !bEnd.After(aEnd)
}

package jregex

// Split splits the input around matches of the pattern.
//
// If limit > 0 at most limit pieces are returned and the last one holds
// the rest of the input. If limit == 0 trailing empty strings are dropped.
// If limit < 0 every piece is kept. A zero-width match at the start of the
// input never produces a leading empty string. When nothing matches the
// result is the input itself.
//
// The only expected errors are a timeout or the backtracking limit, if
// they're hit.
func (re *Regexp) Split(input string, limit int) ([]string, error) {
	m := re.Matcher(input)
	index := 0
	matchLimited := limit > 0
	var list []string

	// add segments before each match found
	for {
		ok, err := m.Find()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if matchLimited && len(list) >= limit-1 {
			break
		}
		if index == 0 && m.first == 0 && m.first == m.last {
			// no empty leading substring for a zero-width match
			continue
		}
		list = append(list, m.in.Substring(index, m.first))
		index = m.last
	}

	// if no match was found, return the input
	if index == 0 {
		return []string{input}, nil
	}

	// add the remaining segment
	list = append(list, m.in.Substring(index, m.textLen()))

	// trailing empty strings are dropped for limit 0
	if limit == 0 {
		n := len(list)
		for n > 0 && list[n-1] == "" {
			n--
		}
		list = list[:n]
	}
	return list, nil
}

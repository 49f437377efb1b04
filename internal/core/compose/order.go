package compose

// StartOrder returns the services so that every service comes after the
// services it depends on (Kahn's algorithm). Ties keep insertion order.
//
// Dependencies on services that were never added to the file are ignored.
// Services caught in a dependency cycle are appended at the end in insertion
// order.
func (f *ComposeFile) StartOrder() []*Service {
	if len(f.services) == 0 {
		return nil
	}

	inFile := make(map[*Service]bool, len(f.services))
	for _, svc := range f.services {
		inFile[svc] = true
	}

	inDegree := make(map[*Service]int, len(f.services))
	dependents := make(map[*Service][]*Service)
	for _, svc := range f.services {
		for _, dep := range svc.dependsOn {
			if !inFile[dep] {
				continue
			}
			inDegree[svc]++
			dependents[dep] = append(dependents[dep], svc)
		}
	}

	var queue []*Service
	for _, svc := range f.services {
		if inDegree[svc] == 0 {
			queue = append(queue, svc)
		}
	}

	result := make([]*Service, 0, len(f.services))
	placed := make(map[*Service]bool, len(f.services))
	for len(queue) > 0 {
		svc := queue[0]
		queue = queue[1:]
		if placed[svc] {
			continue
		}
		placed[svc] = true
		result = append(result, svc)

		for _, dependent := range dependents[svc] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	// Whatever is left sits on a cycle.
	for _, svc := range f.services {
		if !placed[svc] {
			placed[svc] = true
			result = append(result, svc)
		}
	}
	return result
}

package search

// Query fragments shared by the vector and keyword channels. Both channels
// expand a seed node through the same bounded traversal and return the same
// tabular shape, so callers get one result format regardless of channel.

// expansionClause matches the seed's neighborhood. Hop 1 is always matched;
// hop 2 only when depth is 2, excluding the seed itself. Depth is already
// clamped by Options.normalized, so depth is 1 or 2 here.
func expansionClause(depth int) string {
	clause := `
	OPTIONAL MATCH (n)-[r1]-(m1)
	WHERE m1.tenantId = $tenantId`
	if depth >= 2 {
		clause += `
	OPTIONAL MATCH (m1)-[r2]-(m2)
	WHERE m2.tenantId = $tenantId AND m2.id <> n.id`
	}
	return clause
}

// contextReturnClause projects the seed plus its collected neighborhood.
// Hop-1 entries are concatenated before hop-2 entries so the merger's
// first-occurrence dedupe keeps the shortest hop distance.
func contextReturnClause(depth int) string {
	returnClause := `
	RETURN n.id AS id, n.name AS name, labels(n) AS labels,
	       properties(n) AS properties, score,
	       [x IN collect(DISTINCT CASE WHEN m1 IS NULL THEN NULL ELSE
	           {id: m1.id, name: m1.name, labels: labels(m1),
	            relationship_type: type(r1), hop_distance: 1} END)
	        WHERE x IS NOT NULL]`
	if depth >= 2 {
		returnClause += ` +
	       [x IN collect(DISTINCT CASE WHEN m2 IS NULL THEN NULL ELSE
	           {id: m2.id, name: m2.name, labels: labels(m2),
	            relationship_type: type(r2), hop_distance: 2} END)
	        WHERE x IS NOT NULL]`
	}
	returnClause += ` AS related,
	       [x IN collect(DISTINCT CASE WHEN r1 IS NULL THEN NULL ELSE
	           {type: type(r1),
	            direction: CASE WHEN startNode(r1) = n THEN 'out' ELSE 'in' END,
	            properties: properties(r1)} END)
	        WHERE x IS NOT NULL] AS relationships`
	return returnClause
}

// labelFilterClause restricts candidates to the requested labels; with an
// empty filter list it matches everything.
const labelFilterClause = ` AND (size($labels) = 0 OR any(l IN labels(n) WHERE l IN $labels))`

package bench

var querySuggestions = map[string][]string{
	"Simple SELECT": {
		"Ensure proper indexing on frequently queried columns",
		"Consider using column-specific SELECT instead of SELECT *",
		"Check if table partitioning would help for very large tables",
	},
	"Filtered SELECT": {
		"Add an index on the status column if not already present",
		"Consider using ENUM type for status fields to save space",
		"Verify that the WHERE clause uses indexed columns",
	},
	"COUNT": {
		"For approximate counts, consider using information_schema.tables",
		"For large tables, maintain a separate counter table that's updated with triggers",
		"Use COUNT(1) instead of COUNT(*) for slight performance improvement",
	},
	"Simple JOIN": {
		"Ensure foreign keys are properly indexed",
		"Check join order optimization in EXPLAIN plan",
		"Consider denormalizing frequently joined data for read-heavy operations",
	},
	"Multi-table JOIN": {
		"Ensure all join columns are indexed",
		"Consider creating composite indexes for multi-column joins",
		"Use EXPLAIN to verify the join order and optimization",
		"For reporting queries, consider materialized views or summary tables",
	},
	"Aggregation": {
		"Add indexes on grouped columns and columns in the WHERE clause",
		"Consider pre-aggregating data for common aggregation queries",
		"Use HAVING only for filtering on aggregated values, not for row filtering",
	},
	"Subquery": {
		"Check if the subquery can be rewritten as a JOIN for better performance",
		"Use EXPLAIN to verify if the subquery is materialized or executed for each row",
		"Consider using a derived table or CTE instead of a subquery",
	},
	"Complex JOIN with Filtering": {
		"Ensure all join columns and filtered columns are indexed",
		"Consider creating a summary table for this specific query pattern",
		"Use EXPLAIN to identify bottlenecks in the execution plan",
		"Consider breaking down the query into smaller parts using temporary tables",
	},
	"Date Range Query": {
		"Ensure the order_date column is indexed",
		"Consider partitioning large tables by date ranges",
		"Pre-aggregate historical data for faster reporting",
	},
	"Full Text Search": {
		"Add a FULLTEXT index on the description column",
		"Consider using a dedicated search engine like Elasticsearch for complex text search",
		"Optimize FULLTEXT index settings based on your content",
	},
	"View Query": {
		"Consider materializing complex views for better performance",
		"Ensure the underlying tables in the view are properly indexed",
		"Monitor view performance and consider rewriting as a stored procedure if needed",
	},
	"Stored Procedure": {
		"Optimize the internal queries within the stored procedure",
		"Consider caching procedure results for frequent calls with the same parameters",
		"Use proper parameter types and validate inputs to avoid performance issues",
	},
}

// GeneralSuggestions are printed at the end of every report.
var GeneralSuggestions = []string{
	"Ensure InnoDB buffer pool size is set appropriately (typically 70-80% of available memory)",
	"Enable query caching for read-heavy workloads",
	"Optimize table structure by using appropriate data types and normalization level",
	"Regularly run ANALYZE TABLE to update index statistics",
	"Consider using connection pooling for applications with many concurrent connections",
	"Monitor slow queries and optimize them based on EXPLAIN output",
	"Use proper indexing strategy (covering indexes, composite indexes) based on query patterns",
	"Consider partitioning large tables based on access patterns",
	"Regularly maintain and optimize your database with OPTIMIZE TABLE",
	"For read-heavy workloads, consider using read replicas",
}

// SuggestionsFor prefers suggestions set on the definition and falls back
// to the built-in table keyed by query name.
func SuggestionsFor(def QueryDef) []string {
	if len(def.Suggestions) > 0 {
		return def.Suggestions
	}
	return querySuggestions[def.Name]
}

package my

import "dbbench/bench"

// Queries is the built-in MySQL catalog, run in this order.
var Queries = []bench.QueryDef{
	{
		Name:        "Simple SELECT",
		Description: "Retrieves all customers",
		Query:       "SELECT * FROM customers LIMIT 1000;",
		Category:    "Basic",
	},
	{
		Name:        "Filtered SELECT",
		Description: "Retrieves active customers",
		Query:       "SELECT * FROM customers WHERE status = 'Active' LIMIT 1000;",
		Category:    "Basic",
	},
	{
		Name:        "COUNT",
		Description: "Counts total number of products",
		Query:       "SELECT COUNT(*) FROM products;",
		Category:    "Basic",
	},
	{
		Name:        "Simple JOIN",
		Description: "Joins customers and orders",
		Query: "SELECT c.customer_id, c.first_name, c.last_name, o.order_id, o.order_date " +
			"FROM customers c JOIN orders o ON c.customer_id = o.customer_id LIMIT 1000;",
		Category: "Intermediate",
	},
	{
		Name:        "Multi-table JOIN",
		Description: "Joins customers, orders, and order items",
		Query: "SELECT c.customer_id, c.first_name, c.last_name, o.order_id, oi.product_id, oi.quantity " +
			"FROM customers c " +
			"JOIN orders o ON c.customer_id = o.customer_id " +
			"JOIN order_items oi ON o.order_id = oi.order_id LIMIT 1000;",
		Category: "Intermediate",
	},
	{
		Name:        "Aggregation",
		Description: "Calculates total sales by customer",
		Query: "SELECT c.customer_id, c.first_name, c.last_name, SUM(o.total_amount) as total_spent " +
			"FROM customers c " +
			"JOIN orders o ON c.customer_id = o.customer_id " +
			"GROUP BY c.customer_id, c.first_name, c.last_name " +
			"ORDER BY total_spent DESC LIMIT 100;",
		Category: "Intermediate",
	},
	{
		Name:        "Subquery",
		Description: "Finds products with above-average price",
		Query: "SELECT product_id, name, price FROM products " +
			"WHERE price > (SELECT AVG(price) FROM products) " +
			"ORDER BY price DESC LIMIT 100;",
		Category: "Advanced",
	},
	{
		Name:        "Complex JOIN with Filtering",
		Description: "Finds top-rated products with their categories and review stats",
		Query: "SELECT p.product_id, p.name, c.name as category, " +
			"AVG(r.rating) as avg_rating, COUNT(r.review_id) as review_count " +
			"FROM products p " +
			"JOIN categories c ON p.category_id = c.category_id " +
			"JOIN reviews r ON p.product_id = r.product_id " +
			"GROUP BY p.product_id, p.name, c.name " +
			"HAVING avg_rating >= 4 AND review_count >= 3 " +
			"ORDER BY avg_rating DESC, review_count DESC LIMIT 100;",
		Category: "Advanced",
	},
	{
		Name:        "Date Range Query",
		Description: "Analyzes orders within a date range",
		Query: "SELECT DATE(order_date) as order_day, COUNT(*) as order_count, " +
			"SUM(total_amount) as daily_revenue " +
			"FROM orders " +
			"WHERE order_date BETWEEN DATE_SUB(NOW(), INTERVAL 90 DAY) AND NOW() " +
			"GROUP BY order_day " +
			"ORDER BY order_day DESC;",
		Category: "Advanced",
	},
	{
		Name:        "Full Text Search",
		Description: "Searches product descriptions (requires FULLTEXT index)",
		Query: "SELECT product_id, name, description FROM products " +
			"WHERE MATCH(description) AGAINST('premium quality' IN NATURAL LANGUAGE MODE) LIMIT 100;",
		Category: "Advanced",
		Optional: true,
	},
	{
		Name:        "View Query",
		Description: "Queries the product_sales_summary view",
		Query:       "SELECT * FROM product_sales_summary ORDER BY total_revenue DESC LIMIT 100;",
		Category:    "View",
		Optional:    true,
	},
	{
		Name:        "Stored Procedure",
		Description: "Calls get_product_sales_by_date_range procedure",
		Query:       "CALL get_product_sales_by_date_range(DATE_SUB(NOW(), INTERVAL 30 DAY), NOW());",
		Category:    "Procedure",
		Optional:    true,
	},
}
